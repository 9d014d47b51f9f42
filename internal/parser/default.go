package parser

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/keyfall/internal/game"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Extensions a chart file may have
var Extensions = []string{".yml", ".yaml"}

type document struct {
	Title    *string     `yaml:"title"`
	Artist   *string     `yaml:"artist"`
	Creator  *string     `yaml:"creator"`
	Filename string      `yaml:"filename,omitempty"`
	Data     *[]noteNode `yaml:"data"`
}

// DefaultParser reads YAML chart files.
type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*game.Chart, error) {
	if !IsChart(file) {
		return nil, &game.LoadError{
			Kind: game.ErrLoadParse,
			Path: file,
			Err:  errors.Errorf("extension must be one of %v", Extensions),
		}
	}
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, &game.LoadError{Kind: game.ErrLoadIO, Path: file, Err: err}
	}
	chart, err := p.Decode(data)
	if nil != err {
		return nil, &game.LoadError{Kind: game.ErrLoadParse, Path: file, Err: err}
	}
	return chart, nil
}

// Decode reads a chart document. Notes are kept in authored order.
func (p *DefaultParser) Decode(data []byte) (*game.Chart, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); nil != err {
		return nil, errors.Wrap(err, "decoding yaml")
	}

	missing := []string{}
	if nil == doc.Title {
		missing = append(missing, "title")
	}
	if nil == doc.Artist {
		missing = append(missing, "artist")
	}
	if nil == doc.Creator {
		missing = append(missing, "creator")
	}
	if nil == doc.Data {
		missing = append(missing, "data")
	}
	if len(missing) > 0 {
		return nil, errors.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	notes := make([]game.Note, len(*doc.Data))
	for i, n := range *doc.Data {
		notes[i] = game.Note(n)
	}
	return &game.Chart{
		Title:         *doc.Title,
		Artist:        *doc.Artist,
		Creator:       *doc.Creator,
		AudioFilename: doc.Filename,
		Notes:         notes,
	}, nil
}

// Encode writes chart in the form Decode reads.
func Encode(w io.Writer, chart *game.Chart) error {
	data := make([]noteNode, len(chart.Notes))
	for i, n := range chart.Notes {
		data[i] = noteNode(n)
	}
	doc := document{
		Title:    &chart.Title,
		Artist:   &chart.Artist,
		Creator:  &chart.Creator,
		Filename: chart.AudioFilename,
		Data:     &data,
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); nil != err {
		return errors.Wrap(err, "encoding chart")
	}
	return enc.Close()
}

func IsChart(file string) bool {
	ext := strings.ToLower(filepath.Ext(file))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
