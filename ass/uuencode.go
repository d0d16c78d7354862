package ass

// 将二进制数据编码为 [Fonts] 模块使用的文本行
// 每 3 字节映射为 4 个字符，字符取值范围为 33('!') 到 96('`')
// 末尾不足 3 字节时只输出 n+1 个字符，不做补齐
// 输出按每行 80 字符折行
func UUEncode(data []byte) []string {
	size := len(data)
	lines := make([]string, 0, (size*4/3)/encodedLineWidth+1)
	buf := make([]byte, 0, encodedLineWidth)

	for pos := 0; pos < size; pos += 3 {
		src := [3]byte{0, 0, 0}
		n := copy(src[:], data[pos:min(pos+3, size)])

		dst := [4]byte{
			src[0] >> 2,
			((src[0]&0x3)<<4 | (src[1]&0xF0)>>4),
			((src[1]&0xF)<<2 | (src[2]&0xC0)>>6),
			src[2] & 0x3F,
		}

		for i := 0; i < min(n+1, 4); i++ {
			buf = append(buf, dst[i]+33)
			if len(buf) == encodedLineWidth {
				lines = append(lines, string(buf))
				buf = buf[:0]
			}
		}
	}
	if len(buf) > 0 {
		lines = append(lines, string(buf))
	}
	return lines
}

// 将 [Fonts] 模块中的文本行还原为二进制数据
// 范围外的字符（换行、空白等）全部忽略
// 每 4 个字符还原 3 字节；末组 3 个字符还原 2 字节，2 个字符还原 1 字节
// 末组只剩 1 个字符时数据不完整，返回 ErrTruncatedFontData
func UUDecode(lines []string) ([]byte, error) {
	total := 0
	for _, line := range lines {
		total += len(line)
	}
	out := make([]byte, 0, total*3/4)

	var grp [4]byte
	n := 0
	for _, line := range lines {
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c < 33 || c > 96 {
				continue
			}
			grp[n] = c - 33
			n++
			if n == 4 {
				out = append(out,
					grp[0]<<2|grp[1]>>4,
					grp[1]<<4|grp[2]>>2,
					grp[2]<<6|grp[3],
				)
				n = 0
			}
		}
	}

	switch n {
	case 0:
	case 1:
		return nil, ErrTruncatedFontData
	case 2:
		out = append(out, grp[0]<<2|grp[1]>>4)
	case 3:
		out = append(out,
			grp[0]<<2|grp[1]>>4,
			grp[1]<<4|grp[2]>>2,
		)
	}
	return out, nil
}
