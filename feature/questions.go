package feature

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/cartkit/core"
)

const loadQuestionsOp = "load question file"

// LoadQuestionFile loads features from a question file on disk.
func (m *MetaCart) LoadQuestionFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := m.LoadQuestions(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadQuestions loads features from question-file text. Each non-blank line
// not starting with '#' reads
//
//	Index MetaFeatureName value1,value2,...
//
// Error offsets are 1-based line numbers.
func (m *MetaCart) LoadQuestions(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := int64(0)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		if len(fields) != 3 {
			return core.NewFormatError(loadQuestionsOp, line, "expected 3 fields, got %d", len(fields))
		}

		index, err := strconv.Atoi(fields[0])
		if err != nil {
			return core.NewFormatError(loadQuestionsOp, line, "invalid feature index %q", fields[0])
		}

		mf, ok := m.named[fields[1]]
		if !ok {
			return core.NewFormatError(loadQuestionsOp, line, "unknown meta feature %q", fields[1])
		}

		tokens := strings.Split(fields[2], ",")
		values := make([]int, 0, len(tokens))
		for _, tok := range tokens {
			v, err := m.resolveValue(mf, tok)
			if err != nil {
				return &core.FormatError{Op: loadQuestionsOp, Offset: line, Err: err}
			}
			values = append(values, v)
		}

		if err := m.AddFeature(Feature{Index: index, MetaFeatureIndex: mf.Index(), Values: values}); err != nil {
			return &core.FormatError{Op: loadQuestionsOp, Offset: line, Err: err}
		}
	}
	return sc.Err()
}

// SaveQuestionFile writes all features to path in question-file format.
func (m *MetaCart) SaveQuestionFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.SaveQuestions(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// SaveQuestions writes all features in ascending index order, naming values
// the same way LoadQuestions resolves them.
func (m *MetaCart) SaveQuestions(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, f := range m.Features() {
		mf := m.indexed[f.MetaFeatureIndex]
		if len(f.Values) == 0 {
			return fmt.Errorf("%w: feature %d has no values", core.ErrInvalidOperation, f.Index)
		}

		names := make([]string, len(f.Values))
		for i, v := range f.Values {
			names[i] = m.valueName(mf, v)
		}
		if _, err := fmt.Fprintf(bw, "%d %s %s\n", f.Index, mf.Name(), strings.Join(names, ",")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// resolveValue maps a question-file token to a value id. Labels win over
// numeric interpretation so numeric labels (tones, stress levels) resolve to
// their ids.
func (m *MetaCart) resolveValue(mf *MetaFeature, tok string) (int, error) {
	if tok == "" {
		return 0, fmt.Errorf("meta feature %q: empty value", mf.Name())
	}

	switch mf.Kind() {
	case KindInteger:
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, fmt.Errorf("meta feature %q: invalid integer %q", mf.Name(), tok)
		}
		return v, nil
	case KindPhone:
		if m.phones != nil {
			if id, ok := m.phones.PhoneID(tok); ok {
				return id, nil
			}
		}
	}

	if id, ok := mf.ValueID(tok); ok {
		return id, nil
	}
	if v, err := strconv.Atoi(tok); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("meta feature %q: unknown value %q", mf.Name(), tok)
}

func (m *MetaCart) valueName(mf *MetaFeature, v int) string {
	switch mf.Kind() {
	case KindInteger:
		return strconv.Itoa(v)
	case KindPhone:
		if m.phones != nil {
			if name, ok := m.phones.PhoneName(v); ok {
				return name
			}
		}
	}
	if label, ok := mf.Label(v); ok {
		return label
	}
	return strconv.Itoa(v)
}
