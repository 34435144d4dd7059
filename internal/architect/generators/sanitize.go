package generators

import "strings"

// translit 常见西语/葡语字符到 ASCII 的映射，保证所有产物是纯 ASCII 文本
var translit = map[rune]string{
	'á': "a", 'à': "a", 'ä': "a", 'â': "a", 'ã': "a",
	'é': "e", 'è': "e", 'ë': "e", 'ê': "e",
	'í': "i", 'ì': "i", 'ï': "i", 'î': "i",
	'ó': "o", 'ò': "o", 'ö': "o", 'ô': "o", 'õ': "o",
	'ú': "u", 'ù': "u", 'ü': "u", 'û': "u",
	'ñ': "n", 'ç': "c",
	'Á': "A", 'À': "A", 'Ä': "A", 'Â': "A", 'Ã': "A",
	'É': "E", 'È': "E", 'Ë': "E", 'Ê': "E",
	'Í': "I", 'Ì': "I", 'Ï': "I", 'Î': "I",
	'Ó': "O", 'Ò': "O", 'Ö': "O", 'Ô': "O", 'Õ': "O",
	'Ú': "U", 'Ù': "U", 'Ü': "U", 'Û': "U",
	'Ñ': "N", 'Ç': "C",
	'¿': "", '¡': "",
	'“': "\"", '”': "\"", '‘': "'", '’': "'",
	'–': "-", '—': "-", '…': "...",
}

// SanitizeASCII 把任意文本转成纯 ASCII：已知字符转写，其余非 ASCII 丢弃
func SanitizeASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(r)
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		default:
			if rep, ok := translit[r]; ok {
				b.WriteString(rep)
			}
		}
	}
	return b.String()
}

// asciiBytes 返回 sanitized 后的字节切片
func asciiBytes(s string) []byte {
	return []byte(SanitizeASCII(s))
}
