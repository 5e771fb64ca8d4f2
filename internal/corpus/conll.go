package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/halvard/nertune/internal/domain"
)

// conllTags maps CoNLL-2003 tag names to the integer codes used by the hosted
// dataset, so local files and remote rows share one label alphabet.
var conllTags = map[string]int{
	"O":      0,
	"B-PER":  1,
	"I-PER":  2,
	"B-ORG":  3,
	"I-ORG":  4,
	"B-LOC":  5,
	"I-LOC":  6,
	"B-MISC": 7,
	"I-MISC": 8,
}

// ParseCoNLL reads a CoNLL-format token stream: one "token tag" pair per line,
// sentences separated by blank lines. Lines starting with -DOCSTART- are
// document markers and are skipped. The tag is either a known CoNLL-2003 tag
// name or a bare integer code.
func ParseCoNLL(r io.Reader, name string) (*Split, error) {
	split := &Split{Name: name}
	var tokens []string
	var tags []int

	flush := func() {
		if len(tokens) > 0 {
			split.Records = append(split.Records, Record{Tokens: tokens, Tags: tags})
			tokens = nil
			tags = nil
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		fields := strings.Fields(line)
		if strings.HasPrefix(fields[0], "-DOCSTART-") {
			flush()
			continue
		}
		if len(fields) < 2 {
			return nil, domain.NewDomainError(domain.ErrDataUnavailable,
				fmt.Sprintf("conll line %d: expected token and tag, got %q", lineNo, line))
		}
		code, err := parseTag(fields[len(fields)-1])
		if err != nil {
			return nil, domain.NewDomainError(domain.ErrDataUnavailable,
				fmt.Sprintf("conll line %d: %v", lineNo, err))
		}
		tokens = append(tokens, fields[0])
		tags = append(tags, code)
	}
	if err := scanner.Err(); err != nil {
		return nil, domain.NewDomainError(domain.ErrDataUnavailable, "reading conll input")
	}
	flush()

	return split, nil
}

// LoadCoNLLFile parses a local CoNLL file into a split named after the file's
// role (train/validation/test).
func LoadCoNLLFile(path, name string) (*Split, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrDataUnavailable,
			fmt.Sprintf("open %s", path))
	}
	defer f.Close()
	return ParseCoNLL(f, name)
}

func parseTag(tag string) (int, error) {
	if code, ok := conllTags[tag]; ok {
		return code, nil
	}
	code, err := strconv.Atoi(tag)
	if err != nil {
		return 0, fmt.Errorf("unknown tag %q", tag)
	}
	return code, nil
}
