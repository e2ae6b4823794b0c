package palette_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/palette"
)

func TestNewParam(t *testing.T) {
	tests := []struct {
		name    string
		typ     palette.ParamType
		value   any
		options []string
		want    any
		wantErr bool
	}{
		{name: "text", typ: palette.ParamText, value: "hello", want: "hello"},
		{name: "number from int", typ: palette.ParamNumber, value: 1000, want: 1000.0},
		{name: "number from uint64", typ: palette.ParamNumber, value: uint64(7), want: 7.0},
		{name: "number from json.Number", typ: palette.ParamNumber, value: json.Number("2.5"), want: 2.5},
		{name: "boolean", typ: palette.ParamBoolean, value: true, want: true},
		{name: "select", typ: palette.ParamSelect, value: "csv", options: []string{"json", "csv"}, want: "csv"},
		{name: "text with number", typ: palette.ParamText, value: 3, wantErr: true},
		{name: "number with string", typ: palette.ParamNumber, value: "3", wantErr: true},
		{name: "boolean with string", typ: palette.ParamBoolean, value: "true", wantErr: true},
		{name: "number NaN", typ: palette.ParamNumber, value: math.NaN(), wantErr: true},
		{name: "number +Inf", typ: palette.ParamNumber, value: math.Inf(1), wantErr: true},
		{name: "number -Inf", typ: palette.ParamNumber, value: math.Inf(-1), wantErr: true},
		{name: "options on text", typ: palette.ParamText, value: "a", options: []string{"a"}, wantErr: true},
		{name: "unknown type", typ: "color", value: "red", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := palette.NewParam("Field", tt.typ, tt.value, tt.options)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, palette.ErrInvalidParam)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Value())
			assert.Equal(t, tt.typ, p.Type())
		})
	}
}

func TestParamAccessors(t *testing.T) {
	text := palette.TextParam("Name", "n")
	s, ok := text.Text()
	assert.True(t, ok)
	assert.Equal(t, "n", s)
	_, ok = text.Number()
	assert.False(t, ok)
	_, ok = text.Bool()
	assert.False(t, ok)
	assert.Nil(t, text.Options())

	num := palette.NumberParam("Timeout", 5)
	_, ok = num.Text()
	assert.False(t, ok)

	flag := palette.BooleanParam("Enabled", true)
	b, ok := flag.Bool()
	assert.True(t, ok)
	assert.True(t, b)
}

func TestParamWithValue(t *testing.T) {
	sel := palette.SelectParam("Format", "json", "json", "csv", "xml")

	csv, err := sel.WithValue("csv")
	require.NoError(t, err)
	assert.Equal(t, "csv", csv.Value())
	assert.Equal(t, "json", sel.Value(), "original is unchanged")

	_, err = sel.WithValue("yaml")
	assert.ErrorIs(t, err, palette.ErrInvalidParam)

	_, err = palette.NumberParam("Timeout", 1).WithValue(false)
	assert.ErrorIs(t, err, palette.ErrInvalidParam)

	assert.True(t, sel.Equal(palette.SelectParam("Format", "json", "json", "csv", "xml")))
	assert.False(t, sel.Equal(csv))
}

func TestParamJSON(t *testing.T) {
	data, err := json.Marshal(palette.SelectParam("Format", "json", "json", "csv"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"Format","value":"json","type":"select","options":["json","csv"]}`, string(data))

	data, err = json.Marshal(palette.NumberParam("Timeout (ms)", 1000))
	require.NoError(t, err)
	assert.JSONEq(t, `{"label":"Timeout (ms)","value":1000,"type":"number"}`, string(data))

	var p palette.Param
	require.NoError(t, json.Unmarshal([]byte(`{"label":"On","value":false,"type":"boolean"}`), &p))
	assert.Equal(t, false, p.Value())

	err = json.Unmarshal([]byte(`{"label":"On","value":"no","type":"boolean"}`), &p)
	assert.ErrorIs(t, err, palette.ErrInvalidParam)
}

func TestTemplateJSON(t *testing.T) {
	tpl, _ := palette.GetTemplate("data_sink")
	data, err := json.Marshal(tpl)
	require.NoError(t, err)

	var back palette.NodeTemplate
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tpl.ID, back.ID)
	assert.Equal(t, *tpl.DefaultLabel, *back.DefaultLabel)
	assert.Nil(t, back.DefaultTextInput)
	require.Len(t, back.Params, 2)
	assert.True(t, tpl.Params[1].Equal(back.Params[1]))
}

func TestValidateTemplate(t *testing.T) {
	tests := []struct {
		name   string
		tpl    palette.NodeTemplate
		fields []string
	}{
		{
			name:   "missing id and label",
			tpl:    palette.NodeTemplate{},
			fields: []string{"id", "label"},
		},
		{
			name: "duplicate param labels",
			tpl: palette.NodeTemplate{ID: "x", Label: "X", Params: []palette.Param{
				palette.TextParam("A", ""), palette.TextParam("A", ""),
			}},
			fields: []string{"params[1].label"},
		},
		{
			name: "duplicate options",
			tpl: palette.NodeTemplate{ID: "x", Label: "X", Params: []palette.Param{
				palette.SelectParam("Mode", "a", "a", "b", "a"),
			}},
			fields: []string{"params[0].options[2]"},
		},
		{
			name: "select default outside options",
			tpl: palette.NodeTemplate{ID: "x", Label: "X", Params: []palette.Param{
				palette.SelectParam("Mode", "c", "a", "b"),
			}},
			fields: []string{"params[0].value"},
		},
		{
			name: "non-finite number",
			tpl: palette.NodeTemplate{ID: "x", Label: "X", Params: []palette.Param{
				palette.NumberParam("Rate", math.NaN()),
				palette.NumberParam("Limit", math.Inf(1)),
			}},
			fields: []string{"params[0].value", "params[1].value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := palette.ValidateTemplate(tt.tpl)
			got := make([]string, len(violations))
			for i, v := range violations {
				got[i] = v.Field
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}
