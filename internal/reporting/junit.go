package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/campusgrade/scorecore/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Skipped    int              `xml:"skipped,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one evaluated batch.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one criterion, or to the batch verdict.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// JUnitFailure marks a batch that failed the production guard.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitSkipped marks a criterion that could not be computed.
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// verdictCase is the name of the synthetic test case carrying batch validity.
const verdictCase = "batch-validity"

// ConvertToJUnit maps each evaluation to a suite whose cases are its
// criteria plus one verdict case. Unknown criteria are reported as skipped.
func ConvertToJUnit(runID string, ts time.Time, evals []*models.Evaluation) *JUnitTestSuites {
	out := &JUnitTestSuites{Name: runID}
	for _, ev := range evals {
		suite := convertEvaluation(ev, ts)
		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.Skipped += suite.Skipped
		out.TestSuites = append(out.TestSuites, suite)
	}
	return out
}

func convertEvaluation(ev *models.Evaluation, ts time.Time) JUnitTestSuite {
	suite := JUnitTestSuite{
		Name:      fmt.Sprintf("%s/%s", ev.Framework.Name(), ev.BatchID),
		Timestamp: ts.UTC().Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "framework", Value: ev.Framework.Name()},
			{Name: "overall", Value: ev.Overall.Value.String()},
			{Name: "completeness", Value: fmt.Sprintf("%.2f", ev.Completeness)},
		},
	}
	if ev.Overall.Grade != nil {
		suite.Properties = append(suite.Properties, JUnitProperty{Name: "grade", Value: ev.Overall.Grade.Letter})
	}

	for _, r := range ev.Ordered() {
		tc := JUnitTestCase{
			Name:      fmt.Sprintf("%s %s", r.ID, r.Name),
			Classname: ev.BatchID,
			SystemOut: fmt.Sprintf("score=%s status=%s formula=%s", r.Score, r.Status, r.Trace.Formula),
		}
		if !r.Score.IsKnown() {
			tc.Skipped = &JUnitSkipped{Message: r.Score.Reason()}
			suite.Skipped++
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	verdict := JUnitTestCase{Name: verdictCase, Classname: ev.BatchID}
	if !ev.Verdict.IsValid {
		verdict.Failure = &JUnitFailure{
			Message: ev.Verdict.Reason,
			Type:    "InvalidBatch",
			Body:    FormatSummaryReport(ev),
		}
		suite.Failures++
	}
	suite.TestCases = append(suite.TestCases, verdict)
	suite.Tests = len(suite.TestCases)
	return suite
}

// WriteJUnitXML writes suites as an XML document to w.
func WriteJUnitXML(w io.Writer, suites *JUnitTestSuites) error {
	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
