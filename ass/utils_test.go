package ass_test

import (
	"testing"

	"github.com/MontageSubs/ass-tools/ass"
)

func TestParseDataLineWithCommas(t *testing.T) {
	// 测试 Text 字段包含逗号的情况
	format := &ass.FormatInfo{
		Fields: []string{"Layer", "Start", "End", "Style", "Name", "MarginL", "MarginR", "MarginV", "Effect", "Text"},
	}

	testCases := []struct {
		name     string
		line     string
		expected map[string]string
	}{
		{
			name: "Text字段包含逗号",
			line: "Dialogue: 1,0:56:02.80,0:56:08.34,OP-JP,,0,0,10,,这是包含,逗号的文本内容",
			expected: map[string]string{
				"Layer":   "1",
				"Start":   "0:56:02.80",
				"End":     "0:56:08.34",
				"Style":   "OP-JP",
				"Name":    "",
				"MarginL": "0",
				"MarginR": "0",
				"MarginV": "10",
				"Effect":  "",
				"Text":    "这是包含,逗号的文本内容",
			},
		},
		{
			name: "Text字段包含绘图指令",
			line: "Dialogue: 0,0:00:01.00,0:00:05.00,Default,,0,0,0,,{\\an7\\p1}m 0 0 l 100 0 100 100 0 100{\\p0}",
			expected: map[string]string{
				"Layer":   "0",
				"Start":   "0:00:01.00",
				"End":     "0:00:05.00",
				"Style":   "Default",
				"Name":    "",
				"MarginL": "0",
				"MarginR": "0",
				"MarginV": "0",
				"Effect":  "",
				"Text":    "{\\an7\\p1}m 0 0 l 100 0 100 100 0 100{\\p0}",
			},
		},
		{
			name: "Text字段包含样式标签和逗号",
			line: "Dialogue: 1,0:56:02.80,0:56:08.34,OP-JP,,0,0,10,,{\\an2\\c&HFFFFFF&}翻译：abc, def, ghi",
			expected: map[string]string{
				"Layer":   "1",
				"Start":   "0:56:02.80",
				"End":     "0:56:08.34",
				"Style":   "OP-JP",
				"Name":    "",
				"MarginL": "0",
				"MarginR": "0",
				"MarginV": "10",
				"Effect":  "",
				"Text":    "{\\an2\\c&HFFFFFF&}翻译：abc, def, ghi",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ass.ParseDataLine(tc.line, format)
			if err != nil {
				t.Fatalf("parseDataLine 失败: %v", err)
			}

			// 检查字段数量
			if len(result) != len(tc.expected) {
				t.Errorf("字段数量不匹配: 期望 %d, 实际 %d", len(tc.expected), len(result))
			}

			// 检查每个字段
			for field, expectedValue := range tc.expected {
				if actualValue, exists := result[field]; !exists {
					t.Errorf("字段 %s 不存在", field)
				} else if actualValue != expectedValue {
					t.Errorf("字段 %s 值不匹配: 期望 '%s', 实际 '%s'", field, expectedValue, actualValue)
				}
			}
		})
	}
}

func TestCleanEffects(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "纯文本",
			text:     "简单文本",
			expected: "简单文本",
		},
		{
			name:     "去除特效块",
			text:     `{\an2\c&HFFFFFF&\bord4}突然降る夕立`,
			expected: "突然降る夕立",
		},
		{
			name:     "转义字符",
			text:     `转义\{字符\}和\h硬空格`,
			expected: "转义{字符}和 硬空格",
		},
		{
			name:     "软换行",
			text:     `第一行\N第二行`,
			expected: "第一行\n第二行",
		},
		{
			name:     "绘图指令保留为纯文本",
			text:     `{\p1}m 0 0 l 10 0{\p0}`,
			expected: "m 0 0 l 10 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ass.CleanEffects(tc.text); got != tc.expected {
				t.Errorf("清理结果不匹配: 期望 '%s', 实际 '%s'", tc.expected, got)
			}
		})
	}
}
