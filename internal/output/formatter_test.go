package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rgehrsitz/fincalc/internal/calculator"
	"github.com/rgehrsitz/fincalc/internal/validation"
)

func sampleReport(t *testing.T) *Report {
	t.Helper()
	reg := calculator.Default()

	mortgage, err := reg.NewEngine("mortgage")
	require.NoError(t, err)
	require.True(t, mortgage.Validate())

	loan, err := reg.NewEngine("loan-payment")
	require.NoError(t, err)
	loan.SetValues(validation.Values{"principal": -5})

	amort, err := reg.NewEngine("amortization")
	require.NoError(t, err)
	require.True(t, amort.Validate())

	r := NewReport("Test Report")
	r.Add("Home", "mortgage", mortgage.State())
	r.Add("Bad loan", "loan-payment", loan.State())
	r.Add("Schedule", "amortization", amort.State())
	return r
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"console", "console-full", "csv", "html", "json", "yaml"}, AvailableFormatterNames())
	assert.Contains(t, AvailableFormatAliases(), "verbose")

	assert.Equal(t, "console-full", GetFormatterByName("verbose").Name())
	assert.Equal(t, "console", GetFormatterByName(" TEXT ").Name())
	assert.Equal(t, "yaml", GetFormatterByName("yml").Name())
	assert.Nil(t, GetFormatterByName("pdf"))
}

func TestConsoleFormatter(t *testing.T) {
	report := sampleReport(t)

	data, err := GetFormatterByName("console").Format(report)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "TEST REPORT")
	assert.Contains(t, out, "Home (mortgage)")
	assert.Contains(t, out, "Input errors:")
	assert.Contains(t, out, "principal")
	assert.Contains(t, out, "more rows")
	assert.NotContains(t, out, "ASSUMPTIONS")

	full, err := GetFormatterByName("console-full").Format(report)
	require.NoError(t, err)
	assert.NotContains(t, string(full), "more rows")
	assert.Contains(t, string(full), "ASSUMPTIONS")
	assert.Greater(t, len(full), len(data))
}

func TestConsoleFormatterNoResult(t *testing.T) {
	r := &Report{Entries: []Entry{{Name: "Empty", Calculator: "irr"}}}
	data, err := ConsoleFormatter{}.Format(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FINANCIAL CALCULATIONS")
	assert.Contains(t, string(data), "could not be completed")
}

func TestJSONFormatter(t *testing.T) {
	data, err := JSONFormatter{}.Format(sampleReport(t))
	require.NoError(t, err)

	var decoded struct {
		Title   string `json:"title"`
		Entries []struct {
			Name   string             `json:"name"`
			Errors []validation.Error `json:"errors"`
			Result *struct {
				Metrics []calculator.Metric `json:"metrics"`
			} `json:"result"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Test Report", decoded.Title)
	require.Len(t, decoded.Entries, 3)
	assert.NotNil(t, decoded.Entries[0].Result)
	assert.NotEmpty(t, decoded.Entries[0].Result.Metrics)
	assert.Nil(t, decoded.Entries[1].Result)
	assert.NotEmpty(t, decoded.Entries[1].Errors)
}

func TestYAMLFormatter(t *testing.T) {
	data, err := YAMLFormatter{}.Format(sampleReport(t))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "Test Report", decoded["title"])
	assert.Len(t, decoded["entries"], 3)
}

func TestCSVFormatter(t *testing.T) {
	data, err := CSVFormatter{}.Format(sampleReport(t))
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(rows), 3)
	assert.Equal(t, []string{"Run", "Calculator", "Kind", "Key", "Value", "Display"}, rows[0])

	kinds := map[string]int{}
	for _, r := range rows[1:] {
		kinds[r[2]]++
	}
	assert.Positive(t, kinds["metric"])
	assert.Positive(t, kinds["error"])
}

func TestHTMLFormatter(t *testing.T) {
	data, err := HTMLFormatter{}.Format(sampleReport(t))
	require.NoError(t, err)
	out := string(data)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Test Report</title>")
	assert.Contains(t, out, "class=\"errors\"")
	assert.Contains(t, out, "Assumptions")
}

func TestHTMLFormatterEscapes(t *testing.T) {
	r := &Report{Entries: []Entry{{
		Name:       "<script>",
		Calculator: "mortgage",
		Errors:     []validation.Error{{Field: "home_price", Message: "bad"}},
	}}}
	data, err := HTMLFormatter{}.Format(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<script>")
	assert.Contains(t, string(data), "&lt;script&gt;")
}

func TestWriteFormatted(t *testing.T) {
	chdir(t, t.TempDir())

	f := FormatterFunc{ID: "stub", F: func(r *Report) ([]byte, error) {
		return []byte(r.Title), nil
	}}
	name, err := WriteFormatted(f, &Report{Title: "hello"}, ".txt")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "fincalc_report_"))
	assert.True(t, strings.HasSuffix(name, ".txt"))

	content, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestEntryValid(t *testing.T) {
	assert.False(t, Entry{}.Valid())
	assert.True(t, Entry{Result: &calculator.Result{}}.Valid())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the original one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
