package assist

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adamn1225/adam-noahs-stuff/internal/inference/engine"
)

func TestBuildEveryIntent(t *testing.T) {
	c := Context{Title: "Alpha", Description: "A thing.", Tags: Tags{List: []string{"Go", "Redis"}}}
	for _, in := range Intents() {
		p, err := Build(in, c)
		require.NoError(t, err, in)
		require.NotEmpty(t, p.System)
		require.NotEmpty(t, p.User)
		require.Equal(t, p.System+"\n\n"+p.User, engine.Flatten(p.Messages()))
	}
}

func TestBuildGenerateDescription(t *testing.T) {
	p, err := Build(IntentGenerateDescription, Context{Title: "Alpha", Tags: Tags{List: []string{"Go", "Redis"}}})
	require.NoError(t, err)
	require.Equal(t,
		"You are a professional portfolio writer. Generate a compelling, concise project description (2-3 sentences) that highlights the key features and impact.\n\n"+
			"Project title: Alpha\nTechnologies: Go,Redis\nGenerate a professional description:",
		engine.Flatten(p.Messages()))
}

func TestBuildImproveTitle(t *testing.T) {
	p, err := Build(IntentImproveTitle, Context{Title: "Alpha", Description: "Does things"})
	require.NoError(t, err)
	require.Equal(t, "Current title: Alpha\nDescription: Does things\nSuggest better titles:", p.User)
}

func TestBuildUnknownIntent(t *testing.T) {
	_, err := Build(Intent("write_poem"), Context{})
	require.True(t, errors.Is(err, ErrUnknownIntent))

	_, err = ParseIntent("write_poem")
	require.ErrorIs(t, err, ErrUnknownIntent)

	in, err := ParseIntent(" suggest_tags ")
	require.NoError(t, err)
	require.Equal(t, IntentSuggestTags, in)
}

func TestTagsAcceptStringOrList(t *testing.T) {
	var c Context
	require.NoError(t, json.Unmarshal([]byte(`{"tags":"Go, React"}`), &c))
	require.Equal(t, "Go, React", c.Tags.String())

	require.NoError(t, json.Unmarshal([]byte(`{"tags":["a","b"]}`), &c))
	require.Equal(t, []string{"a", "b"}, c.Tags.List)
	require.Equal(t, "a,b", c.Tags.String())

	var none Context
	require.NoError(t, json.Unmarshal([]byte(`{"title":"T"}`), &none))
	require.Equal(t, "", none.Tags.String())

	require.Error(t, json.Unmarshal([]byte(`{"tags":42}`), &c))
}

func TestGenerateDescriptionKeepsTypedTags(t *testing.T) {
	var c Context
	require.NoError(t, json.Unmarshal([]byte(`{"title":"T","tags":"Go, React"}`), &c))
	p, err := Build(IntentGenerateDescription, c)
	require.NoError(t, err)
	require.Equal(t, "Project title: T\nTechnologies: Go, React\nGenerate a professional description:", p.User)
}
