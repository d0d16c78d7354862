package font

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/sfnt"

	"github.com/MontageSubs/ass-tools/ass"
)

const (
	sfntVersionTrueType = 0x00010000
	sfntVersionCFF      = 0x4F54544F // "OTTO"
	sfntVersionApple    = 0x74727565 // "true"
	checksumAdjustMagic = 0xB1B0AFBA
)

// DecodeEmbedded 解出文档内嵌的全部字体并写入 outDir，返回写出的文件路径
// 单个条目的解码和校验问题逐个交给 fn，fn 返回 false 时中止并返回该错误
// 校验不通过的字体仍然写出，损坏数据留给调用方处置
func DecodeEmbedded(doc *ass.Document, outDir string, fn CheckErrFn) ([]string, error) {
	entries, err := doc.FontEntries()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	written := make([]string, 0, len(entries))
	for _, entry := range entries {
		data, err := ass.UUDecode(entry.Lines)
		if err != nil {
			err = fmt.Errorf(`font "%s": %w`, entry.Name, err)
			if fn != nil && !fn(err) {
				return written, err
			}
			continue
		}

		if err := verifyFont(data, fn); err != nil {
			return written, fmt.Errorf(`font "%s": %w`, entry.Name, err)
		}

		path := filepath.Join(outDir, sanitizeFontName(entry.Name))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return written, fmt.Errorf(`font "%s": %w`, entry.Name, err)
		}
		written = append(written, path)

		if fn != nil {
			fn(inspectMsg(path, data))
		}
	}
	return written, nil
}

// verifyFont 校验 sfnt 表目录：魔数、表边界、每表校验和、head 的 checkSumAdjustment
// 发现的问题逐个交给 fn，fn 返回 false 时返回该问题，否则继续
func verifyFont(data []byte, fn CheckErrFn) error {
	report := func(err error) error {
		if fn != nil && !fn(err) {
			return err
		}
		return nil
	}

	if len(data) < 12 {
		return report(ErrFontDataTooShort)
	}
	version := binary.BigEndian.Uint32(data[0:4])
	switch version {
	case sfntVersionTrueType, sfntVersionCFF, sfntVersionApple:
	default:
		return report(NewErrUnsupportedSfntVersion(version))
	}

	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if len(data) < 12+16*numTables {
		return report(fmt.Errorf("table directory: %w", ErrFontDataTooShort))
	}

	for i := 0; i < numTables; i++ {
		rec := data[12+16*i:]
		tag := string(rec[0:4])
		stored := binary.BigEndian.Uint32(rec[4:8])
		offset := int64(binary.BigEndian.Uint32(rec[8:12]))
		length := int64(binary.BigEndian.Uint32(rec[12:16]))
		if offset+length > int64(len(data)) {
			if err := report(fmt.Errorf(`table "%s": %w`, tag, ErrFontDataTooShort)); err != nil {
				return err
			}
			continue
		}

		table := data[offset : offset+length]
		if computed := tableChecksum(tag, table); computed != stored {
			if err := report(NewErrChecksumMismatch(tag, stored, computed)); err != nil {
				return err
			}
		}

		if tag == "head" && length >= 12 {
			// 全文件校验和把 checkSumAdjustment 字段本身按 0 计算
			storedAdj := binary.BigEndian.Uint32(table[8:12])
			expected := checksumAdjustMagic - (checksum(data) - storedAdj)
			if storedAdj != 0 && storedAdj != expected {
				if err := report(NewErrChecksumMismatch("checkSumAdjustment", storedAdj, expected)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// 表校验和，head 表的 checkSumAdjustment 字段按 0 计算
func tableChecksum(tag string, table []byte) uint32 {
	if tag == "head" && len(table) >= 12 {
		head := make([]byte, len(table))
		copy(head, table)
		head[8], head[9], head[10], head[11] = 0, 0, 0, 0
		return checksum(head)
	}
	return checksum(table)
}

// 以 4 字节大端字为单位求和，末尾不足 4 字节按补零处理
func checksum(data []byte) uint32 {
	var sum uint32
	for len(data) >= 4 {
		sum += binary.BigEndian.Uint32(data)
		data = data[4:]
	}
	if len(data) > 0 {
		var last [4]byte
		copy(last[:], data)
		sum += binary.BigEndian.Uint32(last[:])
	}
	return sum
}

// 提取结果概要，解析失败时退化为只报字节数
func inspectMsg(path string, data []byte) error {
	f, err := sfnt.Parse(data)
	if err != nil {
		return NewWarningMsg(`extracted "%s": %d bytes, unparseable font: %s`, path, len(data), err)
	}
	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		family = "?"
	}
	return NewInfoMsg(`extracted "%s": %d bytes, family "%s", %d glyphs, %d units/em`,
		path, len(data), family, f.NumGlyphs(), f.UnitsPerEm())
}

// 条目名里可能混入路径分隔符，全部替换掉，防止写到输出目录之外
func sanitizeFontName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
