package ass

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 将输入字节解码为 UTF-8 文本
// 带 UTF-8/UTF-16 BOM 的输入按 BOM 指示的编码解码并去掉 BOM
// 返回值指明输入是否带 BOM，写回时据此决定是否补回 UTF-8 BOM
func decodeText(raw []byte) (string, bool, error) {
	bom := bytes.HasPrefix(raw, utf8BOM) ||
		bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(raw, []byte{0xFF, 0xFE})

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := transform.NewReader(bytes.NewReader(raw), decoder)
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", bom, fmt.Errorf("read decoder error: %w", err)
	}
	return string(decoded), bom, nil
}
