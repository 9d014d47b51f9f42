package parser

import (
	"strconv"

	"git.lost.host/meutraa/keyfall/internal/game"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// noteNode is the chart file form of a note.
//
//	- !S [Key1, 5000]          tap
//	- !L [Key2, 6000, 6500]    long
//	- S: [Key1, 5000]          tap, map form
//	- [1, 5000]                untagged, kind from length
type noteNode game.Note

func (n *noteNode) UnmarshalYAML(value *yaml.Node) error {
	kind := ""
	seq := value
	switch value.Kind {
	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return errors.Errorf("line %d: note map must have exactly one key", value.Line)
		}
		kind = value.Content[0].Value
		seq = value.Content[1]
	case yaml.SequenceNode:
		switch tag := value.ShortTag(); tag {
		case "!S", "!L":
			kind = tag[1:]
		case "!!seq":
		default:
			return errors.Errorf("line %d: unknown note tag %s", value.Line, tag)
		}
	default:
		return errors.Errorf("line %d: note must be a sequence", value.Line)
	}
	if seq.Kind != yaml.SequenceNode {
		return errors.Errorf("line %d: note fields must be a sequence", seq.Line)
	}

	fields := seq.Content
	if kind == "" {
		switch len(fields) {
		case 2:
			kind = "S"
		case 3:
			kind = "L"
		}
	}
	switch {
	case kind == "S" && len(fields) == 2:
	case kind == "L" && len(fields) == 3:
	case kind == "S" || kind == "L":
		return errors.Errorf("line %d: %s note has %d fields", seq.Line, kind, len(fields))
	default:
		return errors.Errorf("line %d: unknown note kind %q", seq.Line, kind)
	}

	for _, f := range fields {
		if f.Kind != yaml.ScalarNode {
			return errors.Errorf("line %d: note field must be a scalar", f.Line)
		}
	}
	lane, err := game.ParseLane(fields[0].Value)
	if nil != err {
		return errors.Wrapf(err, "line %d", fields[0].Line)
	}
	times := make([]uint32, len(fields)-1)
	for i, f := range fields[1:] {
		ms, err := strconv.ParseUint(f.Value, 10, 32)
		if nil != err {
			return errors.Errorf("line %d: invalid time %q", f.Line, f.Value)
		}
		times[i] = uint32(ms)
	}

	if kind == "S" {
		*n = noteNode(game.NewTap(lane, times[0]))
		return nil
	}
	if times[1] < times[0] {
		return errors.Errorf("line %d: long note ends before it starts", seq.Line)
	}
	*n = noteNode(game.NewLong(lane, times[0], times[1]))
	return nil
}

func (n noteNode) MarshalYAML() (interface{}, error) {
	scalar := func(tag, value string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
	}
	node := &yaml.Node{
		Kind:  yaml.SequenceNode,
		Tag:   "!" + n.Kind.String(),
		Style: yaml.FlowStyle,
		Content: []*yaml.Node{
			scalar("!!str", n.Lane.String()),
			scalar("!!int", strconv.FormatInt(n.Time.Milliseconds(), 10)),
		},
	}
	if n.Kind == game.Long {
		node.Content = append(node.Content, scalar("!!int", strconv.FormatInt(n.TimeEnd.Milliseconds(), 10)))
	}
	return node, nil
}
