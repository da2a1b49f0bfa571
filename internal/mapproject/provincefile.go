package mapproject

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ironsheep/province-map-tools/internal/imaging"
	"github.com/ironsheep/province-map-tools/internal/province"
)

// Province file layout: one record per line,
//
//	id;R;G;B;type;coastal;terrain;continent
const (
	fieldSeparator = ";"
	fieldCount     = 8
)

// errFieldCount marks a line with the wrong number of fields.
var errFieldCount = errors.New("wrong number of fields")

// ParseError reports a province file line that could not be parsed.
type ParseError struct {
	Path    string // file being read, may be empty
	Line    int    // 1-based line number
	Content string // raw line
	Err     error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d %q: %v", e.Line, e.Content, e.Err)
	}
	return fmt.Sprintf("%s:%d %q: %v", e.Path, e.Line, e.Content, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FormatProvince renders one record without a line ending.
func FormatProvince(p province.Province) string {
	return strings.Join([]string{
		strconv.FormatUint(uint64(p.ID), 10),
		strconv.Itoa(int(p.Color.R)),
		strconv.Itoa(int(p.Color.G)),
		strconv.Itoa(int(p.Color.B)),
		p.Type.String(),
		strconv.FormatBool(p.Coastal),
		p.Terrain.String(),
		strconv.FormatUint(uint64(p.Continent), 10),
	}, fieldSeparator)
}

// ParseProvince parses one record. Type and terrain names are matched
// without regard to case; coastal accepts the strconv.ParseBool forms.
func ParseProvince(line string) (province.Province, error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) != fieldCount {
		return province.Province{}, fmt.Errorf("%w: got %d, want %d", errFieldCount, len(fields), fieldCount)
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	var (
		p   province.Province
		err error
	)
	if p.ID, err = parseUint32(fields[0], "id"); err != nil {
		return p, err
	}
	var rgb [3]uint8
	for i, name := range []string{"red", "green", "blue"} {
		v, err := strconv.ParseUint(fields[1+i], 10, 8)
		if err != nil {
			return p, fmt.Errorf("invalid %s channel %q: %w", name, fields[1+i], err)
		}
		rgb[i] = uint8(v)
	}
	p.Color = imaging.Color{R: rgb[0], G: rgb[1], B: rgb[2]}

	if p.Type, err = province.ParseType(fields[4]); err != nil {
		return p, err
	}
	if p.Coastal, err = strconv.ParseBool(fields[5]); err != nil {
		return p, fmt.Errorf("invalid coastal flag %q: %w", fields[5], err)
	}
	if p.Terrain, err = province.ParseTerrain(fields[6]); err != nil {
		return p, err
	}
	if p.Continent, err = parseUint32(fields[7], "continent"); err != nil {
		return p, err
	}
	return p, nil
}

func parseUint32(s, name string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return uint32(v), nil
}

// WriteProvinces writes one record per line with '\n' endings.
func WriteProvinces(w io.Writer, list []province.Province) error {
	bw := bufio.NewWriter(w)
	for _, p := range list {
		if _, err := bw.WriteString(FormatProvince(p) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadProvinces parses every record of r. Blank lines are skipped; the first
// malformed line stops the read with a *ParseError. path only labels errors.
func ReadProvinces(r io.Reader, path string) ([]province.Province, error) {
	list := make([]province.Province, 0)
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		p, err := ParseProvince(text)
		if err != nil {
			return nil, &ParseError{Path: path, Line: line, Content: text, Err: err}
		}
		list = append(list, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return list, nil
}
