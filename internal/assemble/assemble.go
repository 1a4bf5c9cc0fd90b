// Package assemble implements the project assembler (§4.6): it wraps a
// lowered block store and its symbol table in the target environment's
// project envelope — a stage target, one sprite target, and metadata.
package assemble

import (
	"encoding/json"
	"fmt"

	"github.com/kestrel-lang/js2sb3/internal/lower"
	"github.com/kestrel-lang/js2sb3/internal/symbols"
	"golang.org/x/mod/semver"
)

const (
	projectSemver = "3.0.0"
	vmVersion     = "0.2.0"
	agentID       = "js2sb3/0.1.0"

	// Fixed backdrop/costume asset references. The referenced files are
	// blank placeholders shipped verbatim by the packager's asset
	// directory; the compiler never draws anything into them.
	backdropAssetID = "cd21514d0531fdffb22204e0ec5ed84a"
	costumeAssetID  = "bcf454acf82e4504149f7ffe07081dbc"
)

// Costume is a target's costume or backdrop reference.
type Costume struct {
	AssetID         string  `json:"assetId"`
	Name            string  `json:"name"`
	Md5Ext          string  `json:"md5ext"`
	DataFormat      string  `json:"dataFormat"`
	RotationCenterX float64 `json:"rotationCenterX"`
	RotationCenterY float64 `json:"rotationCenterY"`
}

// VariableEntry is the target's variables map value: [name, initialValue].
type VariableEntry [2]interface{}

// ListEntry is the target's lists map value: [name, initialValues].
type ListEntry struct {
	Name   string
	Values []string
}

// MarshalJSON renders a ListEntry as the two-element [name, values] array
// the target format expects, rather than a {Name,Values} object.
func (l ListEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{l.Name, l.Values})
}

// Target is one stage or sprite entry of the project envelope.
type Target struct {
	IsStage        bool                     `json:"isStage"`
	Name           string                   `json:"name"`
	Variables      map[string]VariableEntry `json:"variables"`
	Lists          map[string]ListEntry     `json:"lists"`
	Broadcasts     map[string]string        `json:"broadcasts"`
	Blocks         map[string]*lower.Block  `json:"blocks"`
	Comments       map[string]any           `json:"comments"`
	CurrentCostume int                      `json:"currentCostume"`
	Costumes       []Costume                `json:"costumes"`
	Sounds         []any                    `json:"sounds"`
	Volume         float64                  `json:"volume"`
	LayerOrder     int                      `json:"layerOrder"`

	// Sprite-only fields, omitted for the stage target.
	Visible        *bool    `json:"visible,omitempty"`
	X              *float64 `json:"x,omitempty"`
	Y              *float64 `json:"y,omitempty"`
	Size           *float64 `json:"size,omitempty"`
	Direction      *float64 `json:"direction,omitempty"`
	Draggable      *bool    `json:"draggable,omitempty"`
	RotationStyle  string   `json:"rotationStyle,omitempty"`

	// Stage-only fields.
	Tempo                int  `json:"tempo,omitempty"`
	VideoTransparency    int  `json:"videoTransparency,omitempty"`
	VideoState           string `json:"videoState,omitempty"`
	TextToSpeechLanguage any  `json:"textToSpeechLanguage,omitempty"`
}

// Meta is the project envelope's metadata block.
type Meta struct {
	Semver string `json:"semver"`
	VM     string `json:"vm"`
	Agent  string `json:"agent"`
}

// Project is the full project.json envelope (§4.6).
type Project struct {
	Targets  []*Target `json:"targets"`
	Monitors []any     `json:"monitors"`
	Meta     Meta      `json:"meta"`
}

// Assemble wraps store and table into a project envelope. The event root
// is identified inside store by its block's top_level flag.
func Assemble(store *lower.Store, table *symbols.Table) (*Project, error) {
	if !semver.IsValid("v" + projectSemver) {
		return nil, fmt.Errorf("assemble: invalid project semver %q", projectSemver)
	}

	stage := &Target{
		IsStage:        true,
		Name:           "Stage",
		Variables:      map[string]VariableEntry{},
		Lists:          map[string]ListEntry{},
		Broadcasts:     map[string]string{},
		Blocks:         map[string]*lower.Block{},
		Comments:       map[string]any{},
		CurrentCostume: 0,
		Costumes: []Costume{
			{
				AssetID:    backdropAssetID,
				Name:       "backdrop1",
				Md5Ext:     backdropAssetID + ".svg",
				DataFormat: "svg",
			},
		},
		Sounds:               []any{},
		Volume:               100,
		LayerOrder:           0,
		Tempo:                60,
		VideoTransparency:    50,
		VideoState:           "on",
		TextToSpeechLanguage: nil,
	}

	sprite := buildSprite(store, table)

	return &Project{
		Targets:  []*Target{stage, sprite},
		Monitors: []any{},
		Meta: Meta{
			Semver: projectSemver,
			VM:     vmVersion,
			Agent:  agentID,
		},
	}, nil
}

func buildSprite(store *lower.Store, table *symbols.Table) *Target {
	variables := map[string]VariableEntry{}
	for _, name := range table.Variables.Slice() {
		var initial interface{} = float64(0)
		if v, ok := table.ObjectPropertyValues[name]; ok {
			initial = v
		}
		variables[name] = VariableEntry{name, initial}
	}

	lists := map[string]ListEntry{}
	for _, name := range table.Lists.Slice() {
		values := table.ListInitialValues[name]
		if values == nil {
			values = []string{}
		}
		lists[name] = ListEntry{Name: name, Values: values}
	}

	visible := !hasLooksSay(store)
	x, y, size, direction := 0.0, 0.0, 100.0, 90.0
	draggable := false

	return &Target{
		IsStage:        false,
		Name:           "Sprite1",
		Variables:      variables,
		Lists:          lists,
		Broadcasts:     map[string]string{},
		Blocks:         store.Blocks,
		Comments:       map[string]any{},
		CurrentCostume: 0,
		Costumes: []Costume{
			{
				AssetID:    costumeAssetID,
				Name:       "costume1",
				Md5Ext:     costumeAssetID + ".svg",
				DataFormat: "svg",
			},
		},
		Sounds:        []any{},
		Volume:        100,
		LayerOrder:    1,
		Visible:       &visible,
		X:             &x,
		Y:             &y,
		Size:          &size,
		Direction:     &direction,
		Draggable:     &draggable,
		RotationStyle: "all around",
	}
}

func hasLooksSay(store *lower.Store) bool {
	for _, b := range store.Blocks {
		if b.Opcode == "looks_say" {
			return true
		}
	}
	return false
}
