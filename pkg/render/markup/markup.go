// Package markup rewrites SVG documents at the text level.
//
// Nothing here parses the document into a tree. Every rewrite is a bounded
// regular expression or substring search over the raw markup, so untouched
// parts of the document come out byte-for-byte as they went in (modulo the
// optimizer pass).
package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fillAttr      = regexp.MustCompile(`fill="[^"]{0,100}"`)
	strokeAttr    = regexp.MustCompile(`stroke="[^"]{0,100}"`)
	fillStyle     = regexp.MustCompile(`fill:[^;"}]{0,100}`)
	strokeStyle   = regexp.MustCompile(`stroke:[^;"}]{0,100}`)
	stopAttr      = regexp.MustCompile(`stop-color="[^"]{0,100}"`)
	stopStyle     = regexp.MustCompile(`stop-color:[^;"}]{0,100}`)
	rootTag       = regexp.MustCompile(`<svg\b[^>]{0,1000}>`)
	aspectAttr    = regexp.MustCompile(`\spreserveAspectRatio="[^"]{0,50}"`)
	effectAttr    = regexp.MustCompile(`\s(?:filter|mask|clip-path)="[^"]{0,500}"`)
	widthAttr     = regexp.MustCompile(`\swidth="([^"]{0,100})"`)
	heightAttr    = regexp.MustCompile(`\sheight="([^"]{0,100})"`)
	viewBoxValue  = regexp.MustCompile(`\sviewBox="([^"]{0,100})"`)
	lengthPrefix  = regexp.MustCompile(`^\s*([0-9]*\.?[0-9]+)\s*(px)?\s*$`)
	viewBoxFields = regexp.MustCompile(`[\s,]+`)
)

// Recolor replaces every fill, stroke and stop-color value, both as
// attributes and as inline style declarations, with color.
func Recolor(svg, color string) string {
	svg = fillAttr.ReplaceAllLiteralString(svg, `fill="`+color+`"`)
	svg = strokeAttr.ReplaceAllLiteralString(svg, `stroke="`+color+`"`)
	svg = fillStyle.ReplaceAllLiteralString(svg, "fill:"+color)
	svg = strokeStyle.ReplaceAllLiteralString(svg, "stroke:"+color)
	svg = stopAttr.ReplaceAllLiteralString(svg, `stop-color="`+color+`"`)
	svg = stopStyle.ReplaceAllLiteralString(svg, "stop-color:"+color)
	return svg
}

// block is an element stripped in simplified mode, with the maximum body
// length searched for its closing tag.
type block struct {
	open  *regexp.Regexp
	close string
	limit int
}

var simplifiedBlocks = []block{
	{regexp.MustCompile(`<defs\b[^>]*>`), "</defs>", 10000},
	{regexp.MustCompile(`<linearGradient\b[^>]*>`), "</linearGradient>", 5000},
	{regexp.MustCompile(`<radialGradient\b[^>]*>`), "</radialGradient>", 5000},
	{regexp.MustCompile(`<pattern\b[^>]*>`), "</pattern>", 5000},
	{regexp.MustCompile(`<filter\b[^>]*>`), "</filter>", 5000},
	{regexp.MustCompile(`<mask\b[^>]*>`), "</mask>", 5000},
}

// Simplify removes definition, gradient, pattern, filter and mask blocks.
// Each block is matched from its opening tag to the nearest closing tag
// within its length limit; nesting is not tracked and blocks whose close
// lies beyond the limit are left in place.
func Simplify(svg string) string {
	for _, b := range simplifiedBlocks {
		svg = stripBlocks(svg, b)
	}
	return svg
}

func stripBlocks(svg string, b block) string {
	var out strings.Builder
	rest := svg
	for {
		loc := b.open.FindStringIndex(rest)
		if loc == nil {
			out.WriteString(rest)
			return out.String()
		}
		body := rest[loc[1]:]
		window := body
		if len(window) > b.limit+len(b.close) {
			window = window[:b.limit+len(b.close)]
		}
		end := strings.Index(window, b.close)
		if end < 0 {
			// Unclosed within the limit: keep the opening tag and move on.
			out.WriteString(rest[:loc[1]])
			rest = body
			continue
		}
		out.WriteString(rest[:loc[0]])
		rest = body[end+len(b.close):]
	}
}

// StripEffects removes filter, mask and clip-path attributes.
func StripEffects(svg string) string {
	return effectAttr.ReplaceAllLiteralString(svg, "")
}

// SetViewBox replaces the root viewBox, adding it when absent.
func SetViewBox(svg, viewBox string) string {
	return setRootAttr(svg, viewBoxValue, "viewBox", viewBox)
}

// SetPreserveAspectRatio replaces the root preserveAspectRatio, appending
// it to the root tag when absent.
func SetPreserveAspectRatio(svg, value string) string {
	return setRootAttr(svg, aspectAttr, "preserveAspectRatio", value)
}

// SetDimensions sets the root width and height attributes. Zero values are
// left untouched. Only the bare attributes on the root element are matched;
// stroke-width and other attributes ending in "width" never are.
func SetDimensions(svg string, width, height int) string {
	if width > 0 {
		svg = setRootAttr(svg, widthAttr, "width", strconv.Itoa(width))
	}
	if height > 0 {
		svg = setRootAttr(svg, heightAttr, "height", strconv.Itoa(height))
	}
	return svg
}

// setRootAttr rewrites attr inside the root <svg> tag only.
func setRootAttr(svg string, attr *regexp.Regexp, name, value string) string {
	loc := rootTag.FindStringIndex(svg)
	if loc == nil {
		return svg
	}
	tag := svg[loc[0]:loc[1]]
	repl := fmt.Sprintf(` %s="%s"`, name, value)

	if m := attr.FindStringIndex(tag); m != nil {
		tag = tag[:m[0]] + repl + tag[m[1]:]
	} else {
		end := len(tag) - 1
		if strings.HasSuffix(tag, "/>") {
			end--
		}
		tag = strings.TrimRight(tag[:end], " \t\r\n") + repl + tag[end:]
	}
	return svg[:loc[0]] + tag + svg[loc[1]:]
}

// Dimensions reports the intrinsic size of an SVG document: the root width
// and height attributes when both are absolute lengths, otherwise the
// viewBox size. ok is false when neither is available.
func Dimensions(svg string) (width, height float64, ok bool) {
	tag := rootTag.FindString(svg)
	if tag == "" {
		return 0, 0, false
	}
	w, wok := parseLength(submatch(widthAttr, tag))
	h, hok := parseLength(submatch(heightAttr, tag))
	if wok && hok {
		return w, h, true
	}

	fields := viewBoxFields.Split(strings.TrimSpace(submatch(viewBoxValue, tag)), -1)
	if len(fields) != 4 {
		return 0, 0, false
	}
	vw, err1 := strconv.ParseFloat(fields[2], 64)
	vh, err2 := strconv.ParseFloat(fields[3], 64)
	if err1 != nil || err2 != nil || vw <= 0 || vh <= 0 {
		return 0, 0, false
	}
	if wok {
		return w, w * vh / vw, true
	}
	if hok {
		return h * vw / vh, h, true
	}
	return vw, vh, true
}

func submatch(re *regexp.Regexp, tag string) string {
	m := re.FindStringSubmatch(tag)
	if m == nil {
		return ""
	}
	return m[1]
}

func parseLength(s string) (float64, bool) {
	m := lengthPrefix.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
