// Package coreout provides the statistic outputs of the built-in core
// library.
package coreout

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/specialistvlad/eligo/internal/element"
	"github.com/specialistvlad/eligo/internal/eli"
	"github.com/specialistvlad/eligo/internal/params"
)

// Library is the name of the built-in library.
const Library = "core"

// Stdout is the filepath value that selects standard output.
const Stdout = "-"

var ErrNotStarted = errors.New("statistic output not started")

var filepathParam = eli.ParamSpec{Name: "filepath", Description: "Destination file, or - for standard output", Default: eli.DefaultValue(Stdout)}

// Module registers the core statistic outputs.
type Module struct{}

func init() {
	(&Module{}).Register(eli.Default())
}

func (m *Module) Register(r *eli.Registry) {
	outs := element.StatisticOutputs.WithRegistry(r)

	outs.Register(eli.Element{
		Library:      Library,
		Name:         "console",
		Description:  "Writes one line per statistic field",
		Params:       []eli.ParamSpec{filepathParam},
		Constructors: []eli.Constructor{eli.Ctor1(NewConsole)},
	})
	outs.Register(eli.Element{
		Library:     Library,
		Name:        "csv",
		Description: "Writes statistic fields as comma separated rows",
		Params: []eli.ParamSpec{
			filepathParam,
			{Name: "separator", Description: "Single character column separator", Default: eli.DefaultValue(",")},
		},
		Constructors: []eli.Constructor{eli.Ctor1(NewCSV)},
	})
	outs.Register(eli.Element{
		Library:     Library,
		Name:        "json",
		Description: "Writes all statistic fields of a run as one JSON document",
		Params: []eli.ParamSpec{
			filepathParam,
			{Name: "run_id", Description: "Identifier recorded in the document, generated when empty", Default: eli.DefaultValue("")},
		},
		Constructors: []eli.Constructor{eli.Ctor1(NewJSON)},
	})
}

// sink opens the configured destination on start and closes it on stop.
type sink struct {
	path string
	w    io.Writer
	c    io.Closer
}

func newSink(p *params.Params) sink {
	path, _ := params.Find(p, "filepath", Stdout)
	return sink{path: path}
}

func (s *sink) open() error {
	if s.path == Stdout || s.path == "" {
		s.w = os.Stdout
		return nil
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to open statistic output: %w", err)
	}
	s.w, s.c = f, f
	return nil
}

func (s *sink) close() error {
	s.w = nil
	if s.c == nil {
		return nil
	}
	c := s.c
	s.c = nil
	return c.Close()
}

// Console writes "component.statistic = value" lines.
type Console struct {
	element.ModuleBase
	sink
}

func NewConsole(p *params.Params) element.StatisticOutput {
	return &Console{sink: newSink(p)}
}

func (c *Console) StartOutput() error { return c.open() }

func (c *Console) OutputField(component, statistic string, value float64) error {
	if c.w == nil {
		return ErrNotStarted
	}
	_, err := fmt.Fprintf(c.w, "%s.%s = %s\n", component, statistic, strconv.FormatFloat(value, 'g', -1, 64))
	return err
}

func (c *Console) StopOutput() error { return c.close() }

// CSV writes a header row followed by one row per field.
type CSV struct {
	element.ModuleBase
	sink
	sep rune
	cw  *csv.Writer
}

func NewCSV(p *params.Params) element.StatisticOutput {
	sep := ','
	if s, _ := params.Find(p, "separator", ","); utf8.RuneCountInString(s) == 1 {
		sep, _ = utf8.DecodeRuneInString(s)
	}
	return &CSV{sink: newSink(p), sep: sep}
}

func (c *CSV) StartOutput() error {
	if err := c.open(); err != nil {
		return err
	}
	c.cw = csv.NewWriter(c.w)
	c.cw.Comma = c.sep
	return c.cw.Write([]string{"ComponentName", "StatisticName", "Value"})
}

func (c *CSV) OutputField(component, statistic string, value float64) error {
	if c.cw == nil {
		return ErrNotStarted
	}
	return c.cw.Write([]string{component, statistic, strconv.FormatFloat(value, 'g', -1, 64)})
}

func (c *CSV) StopOutput() error {
	if c.cw == nil {
		return ErrNotStarted
	}
	c.cw.Flush()
	err := c.cw.Error()
	c.cw = nil
	return errors.Join(err, c.close())
}

// Field is one recorded statistic value.
type Field struct {
	Component string  `json:"component"`
	Statistic string  `json:"statistic"`
	Value     float64 `json:"value"`
}

// Document is the JSON output of one run.
type Document struct {
	RunID  string  `json:"run_id"`
	Fields []Field `json:"fields"`
}

// JSON buffers fields and writes them as one Document on stop.
type JSON struct {
	element.ModuleBase
	sink
	doc     Document
	started bool
}

func NewJSON(p *params.Params) element.StatisticOutput {
	runID, _ := params.Find(p, "run_id", "")
	if runID == "" {
		runID = uuid.NewString()
	}
	return &JSON{sink: newSink(p), doc: Document{RunID: runID, Fields: []Field{}}}
}

// RunID returns the identifier written into the document.
func (j *JSON) RunID() string { return j.doc.RunID }

func (j *JSON) StartOutput() error {
	if err := j.open(); err != nil {
		return err
	}
	j.started = true
	return nil
}

func (j *JSON) OutputField(component, statistic string, value float64) error {
	if !j.started {
		return ErrNotStarted
	}
	j.doc.Fields = append(j.doc.Fields, Field{Component: component, Statistic: statistic, Value: value})
	return nil
}

func (j *JSON) StopOutput() error {
	if !j.started {
		return ErrNotStarted
	}
	j.started = false
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return errors.Join(enc.Encode(j.doc), j.close())
}
