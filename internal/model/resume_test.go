package model_test

import (
	"encoding/json"
	"testing"

	"resume-export/internal/model"
	"resume-export/internal/model/modeltest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResume_JSONRoundTrip(t *testing.T) {
	in := modeltest.Full()

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out model.Resume
	require.NoError(t, json.Unmarshal(raw, &out))

	if diff := cmp.Diff(in, &out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSection_UnmarshalDecodesContentByType(t *testing.T) {
	raw := `{"id":"s1","type":"skills","title":"Skills","visible":true,"order":3,
		"content":[{"category":"Languages","skills":["Go","Rust"]}]}`

	var s model.Section
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	skills, ok := s.Content.(model.SkillList)
	require.True(t, ok, "content should decode to SkillList, got %T", s.Content)
	assert.Equal(t, []string{"Go", "Rust"}, skills[0].Skills)
	assert.Equal(t, model.SectionSkills, s.Content.SectionType())
}

func TestSection_UnmarshalRejectsUnknownType(t *testing.T) {
	var s model.Section
	err := json.Unmarshal([]byte(`{"type":"hobbies","content":{}}`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section type")
}

func TestSection_UnmarshalNullContent(t *testing.T) {
	var s model.Section
	require.NoError(t, json.Unmarshal([]byte(`{"type":"awards","content":null,"visible":true}`), &s))
	assert.Nil(t, s.Content)
	assert.True(t, s.Visible)
}

func TestSection_MarshalRejectsMismatchedContent(t *testing.T) {
	s := model.Section{ID: "x", Type: model.SectionAwards, Content: model.SkillList{}}
	_, err := json.Marshal(s)
	require.Error(t, err)
}

func TestOrderedVisibleSections(t *testing.T) {
	r := modeltest.Full()
	before := append([]model.Section(nil), r.Sections...)

	got := r.OrderedVisibleSections()

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"pi", "edu", "exp", "proj", "skills", "certs", "awards", "custom"}, ids)
	assert.Equal(t, before, r.Sections, "ordering must not mutate the resume")
}

func TestOrderedVisibleSections_StableOnTies(t *testing.T) {
	r := &model.Resume{Sections: []model.Section{
		{ID: "b", Type: model.SectionCustom, Visible: true, Order: 1},
		{ID: "a", Type: model.SectionCustom, Visible: true, Order: 1},
		{ID: "c", Type: model.SectionCustom, Visible: true, Order: 0},
	}}
	got := r.OrderedVisibleSections()
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestPersonalInfo(t *testing.T) {
	pi, ok := modeltest.Minimal().PersonalInfo()
	require.True(t, ok)
	assert.Equal(t, "John Doe", pi.FullName)

	_, ok = (&model.Resume{}).PersonalInfo()
	assert.False(t, ok)
}

func TestWordCount_IgnoresHiddenSections(t *testing.T) {
	r := &model.Resume{Sections: []model.Section{
		{Type: model.SectionAwards, Title: "Awards", Visible: true, Content: model.AwardList{{Title: "Best Paper"}}},
		{Type: model.SectionAwards, Title: "Hidden", Visible: false, Content: model.AwardList{{Title: "one two three"}}},
	}}
	assert.Equal(t, 3, r.WordCount())
}

func TestStyling_Normalized(t *testing.T) {
	s := model.Styling{FontFamily: "Georgia"}.Normalized()
	assert.Equal(t, "Georgia", s.FontFamily)
	assert.Equal(t, model.DefaultStyling().Margins, s.Margins)
	assert.Equal(t, 11.0, s.FontSize)
}

func TestStyling_NormalizedKeepsExplicitZeroMargins(t *testing.T) {
	in := model.Styling{Margins: &model.Margins{}}
	s := in.Normalized()
	require.NotNil(t, s.Margins)
	assert.Equal(t, model.Margins{}, *s.Margins)

	s.Margins.Top = 5
	assert.Zero(t, in.Margins.Top, "Normalized must not alias the caller's margins")

	r, err := model.ParseResume([]byte(`{"title":"Edge","sections":[],"styling":{"margins":{"top":0,"right":0,"bottom":0,"left":0}}}`))
	require.NoError(t, err)
	require.NotNil(t, r.Styling.Margins)
	assert.Equal(t, model.Margins{}, *r.Styling.Normalized().Margins)
}

func TestDateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		current bool
		want    string
	}{
		{name: "month precision", start: "2020-01", end: "2021-06", want: "Jan 2020 - Jun 2021"},
		{name: "day precision", start: "2020-01-15", end: "2020-03-01", want: "Jan 2020 - Mar 2020"},
		{name: "current role", start: "2021-02", end: "2022-01", current: true, want: "Feb 2021 - Present"},
		{name: "year only", start: "2019", want: "2019"},
		{name: "free text kept", start: "Spring 2019", end: "Fall 2019", want: "Spring 2019 - Fall 2019"},
		{name: "empty", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.DateRange(tt.start, tt.end, tt.current))
		})
	}
}

func TestSectionType_Valid(t *testing.T) {
	for _, st := range model.SectionTypes {
		assert.True(t, st.Valid(), st)
	}
	assert.False(t, model.SectionType("hobbies").Valid())
}
