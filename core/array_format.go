package core

import (
	"encoding/binary"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// maxPackCount bounds the repeat count written in a pack template.
const maxPackCount = 1 << 24

// Join concatenates the string forms of the elements with sep, joining
// nested arrays recursively.
func (a *Array) Join(rt Runtime, sep string) (string, error) {
	var b strings.Builder
	first := true
	seen := map[*Array]struct{}{}
	var walk func(src *Array) error
	walk = func(src *Array) error {
		if _, ok := seen[src]; ok {
			return argumentError("recursive array join")
		}
		seen[src] = struct{}{}
		defer delete(seen, src)
		for i := 0; i < src.length; i++ {
			item := src.at(i)
			if nested := item.Array(); nested != nil {
				if err := walk(nested); err != nil {
					return err
				}
				continue
			}
			if !first {
				b.WriteString(sep)
			}
			first = false
			s, err := toS(rt, item)
			if err != nil {
				return err
			}
			b.WriteString(s)
		}
		return nil
	}
	if err := walk(a); err != nil {
		return "", err
	}
	return b.String(), nil
}

func toS(rt Runtime, v Value) (string, error) {
	if v.kind != KindObject || rt == nil {
		return v.String(), nil
	}
	res, err := rt.CallMethod(v, "to_s", nil, nil)
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

// Pack encodes the elements as a binary string following template. Supported
// directives: C c (8-bit), S s v n (16-bit; native, little, big endian),
// L l V N (32-bit), Q q (64-bit), U (UTF-8 code point), a A (string, null or
// space padded). Each takes a count or `*`.
func (a *Array) Pack(template string) (string, error) {
	var out []byte
	next := 0
	take := func() (Value, error) {
		if next >= a.length {
			return NewNil(), argumentError("too few arguments")
		}
		v := a.at(next)
		next++
		return v, nil
	}
	for pos := 0; pos < len(template); {
		directive := template[pos]
		pos++
		if directive == ' ' || directive == '\t' || directive == '\n' {
			continue
		}
		count, star := 1, false
		if pos < len(template) && template[pos] == '*' {
			star = true
			pos++
		} else if pos < len(template) && template[pos] >= '0' && template[pos] <= '9' {
			count = 0
			for pos < len(template) && template[pos] >= '0' && template[pos] <= '9' {
				count = count*10 + int(template[pos]-'0')
				if count > maxPackCount {
					return "", argumentError("pack count too large")
				}
				pos++
			}
		}
		switch directive {
		case 'a', 'A':
			v, err := take()
			if err != nil {
				return "", err
			}
			if v.kind != KindString {
				return "", typeMismatch("no implicit conversion of %s into String", v.kind)
			}
			s := v.Str()
			if star {
				count = len(s)
			}
			pad := byte(0)
			if directive == 'A' {
				pad = ' '
			}
			for i := 0; i < count; i++ {
				if i < len(s) {
					out = append(out, s[i])
				} else {
					out = append(out, pad)
				}
			}
			continue
		}
		width, order, ok := packWidth(directive)
		if !ok {
			return "", argumentError("unknown pack directive '%c'", directive)
		}
		if star {
			count = a.length - next
		}
		for i := 0; i < count; i++ {
			v, err := take()
			if err != nil {
				return "", err
			}
			if !v.isNumeric() {
				return "", typeMismatch("no implicit conversion of %s into Integer", v.kind)
			}
			var signed int64
			if v.kind == KindFloat {
				signed = int64(v.Float())
			} else {
				signed = v.bigRef().Int64()
			}
			n := uint64(signed)
			if directive == 'U' {
				r, err := safecast.Conv[rune](signed)
				if err != nil || !utf8.ValidRune(r) {
					return "", argumentError("pack(U): value out of range")
				}
				out = utf8.AppendRune(out, r)
				continue
			}
			switch width {
			case 1:
				out = append(out, byte(n))
			case 2:
				out = order.AppendUint16(out, uint16(n))
			case 4:
				out = order.AppendUint32(out, uint32(n))
			case 8:
				out = order.AppendUint64(out, n)
			}
		}
	}
	return string(out), nil
}

func packWidth(directive byte) (int, binary.AppendByteOrder, bool) {
	switch directive {
	case 'C', 'c', 'U':
		return 1, binary.LittleEndian, true
	case 'S', 's', 'v':
		return 2, binary.LittleEndian, true
	case 'n':
		return 2, binary.BigEndian, true
	case 'L', 'l', 'V':
		return 4, binary.LittleEndian, true
	case 'N':
		return 4, binary.BigEndian, true
	case 'Q', 'q':
		return 8, binary.LittleEndian, true
	default:
		return 0, nil, false
	}
}
