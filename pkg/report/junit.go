package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/orchestrator"
	"github.com/beevik/etree"
)

// JUnit builds a JUnit XML document with one test case per command
func JUnit(s Summary) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suite := suites.CreateElement("testsuite")
	suite.CreateAttr("name", suiteName(s))
	suite.CreateAttr("tests", fmt.Sprint(len(s.Result.Outcomes)))
	suite.CreateAttr("failures", fmt.Sprint(s.Result.Failed))
	suite.CreateAttr("skipped", fmt.Sprint(s.Result.Count(orchestrator.StatusNotRun)))

	for _, o := range s.Result.Outcomes {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", "archx."+o.Kind)
		tc.CreateAttr("name", fmt.Sprintf("#%d %s", o.Index, o.Kind))

		switch o.Status {
		case orchestrator.StatusFailed:
			failure := tc.CreateElement("failure")
			failure.CreateAttr("type", string(errors.GetErrorCode(o.Err)))
			failure.CreateAttr("message", errorText(o.Err))
		case orchestrator.StatusNotRun:
			tc.CreateElement("skipped").CreateAttr("message", o.Message)
		default:
			tc.CreateElement("system-out").SetText(o.Message)
		}
	}

	doc.Indent(2)
	return doc
}

// WriteJUnit writes the JUnit document for s to w
func WriteJUnit(w io.Writer, s Summary) error {
	_, err := JUnit(s).WriteTo(w)
	return err
}

// WriteJUnitFile writes the JUnit document for s to path, creating parent
// directories as needed
func WriteJUnitFile(path string, s Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot create directory for %s", path)
	}
	if err := JUnit(s).WriteToFile(path); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot write JUnit report %s", path)
	}
	return nil
}

func suiteName(s Summary) string {
	name := "archx"
	if s.Config != "" {
		name += " " + s.Config
	}
	if s.DryRun {
		name += " (dry run)"
	}
	return name
}
