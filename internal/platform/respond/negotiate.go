package respond

import (
	"strconv"
	"strings"
)

type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into lower-cased media ranges.
// Missing, malformed or out-of-range q values count as 1.0. A bare type
// without a slash is read as type/*.
func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		params := strings.Split(part, ";")
		mt := strings.ToLower(strings.TrimSpace(params[0]))
		if mt == "" {
			continue
		}
		mr := mediaRange{q: 1.0}
		if typ, sub, ok := strings.Cut(mt, "/"); ok {
			mr.typ, mr.subtype = strings.TrimSpace(typ), strings.TrimSpace(sub)
		} else {
			mr.typ, mr.subtype = mt, "*"
		}
		for _, p := range params[1:] {
			k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || strings.ToLower(strings.TrimSpace(k)) != "q" {
				continue
			}
			if q, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && q >= 0 && q <= 1 {
				mr.q = q
			}
		}
		ranges = append(ranges, mr)
	}
	return ranges
}

// specificity ranks how precisely mr names the problem format with the given
// structured suffix ("json" or "cbor"); -1 means no match.
func (mr mediaRange) specificity(suffix string) int {
	switch {
	case mr.typ == "*" && mr.subtype == "*":
		return 0
	case mr.typ != "application":
		return -1
	case mr.subtype == "*":
		return 1
	case mr.subtype == "*+"+suffix:
		return 2
	case mr.subtype == suffix:
		return 3
	case mr.subtype == "problem+"+suffix:
		return 4
	default:
		return -1
	}
}

// preference returns the q value and specificity of the most specific range matching suffix.
func preference(ranges []mediaRange, suffix string) (q float64, spec int) {
	spec = -1
	for _, mr := range ranges {
		if s := mr.specificity(suffix); s > spec {
			spec, q = s, mr.q
		}
	}
	return q, spec
}

// selectFormat reports whether a problem should be encoded as CBOR. The q
// value decides first, specificity breaks ties, and JSON wins what is left.
func selectFormat(accept string) bool {
	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		return false
	}
	cborQ, cborSpec := preference(ranges, "cbor")
	if cborSpec < 0 || cborQ == 0 {
		return false
	}
	jsonQ, jsonSpec := preference(ranges, "json")
	if jsonSpec < 0 || jsonQ == 0 {
		return true
	}
	if cborQ != jsonQ {
		return cborQ > jsonQ
	}
	return cborSpec > jsonSpec
}
