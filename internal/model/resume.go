package model

// Go models that match the resume.schema.json used for validation and export.

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type SectionType string

const (
	SectionPersonalInfo   SectionType = "personal_info"
	SectionEducation      SectionType = "education"
	SectionExperience     SectionType = "experience"
	SectionProjects       SectionType = "projects"
	SectionSkills         SectionType = "skills"
	SectionCertifications SectionType = "certifications"
	SectionAwards         SectionType = "awards"
	SectionCustom         SectionType = "custom"
)

// SectionTypes lists every known section type in their canonical order.
var SectionTypes = []SectionType{
	SectionPersonalInfo,
	SectionEducation,
	SectionExperience,
	SectionProjects,
	SectionSkills,
	SectionCertifications,
	SectionAwards,
	SectionCustom,
}

func (t SectionType) Valid() bool {
	for _, s := range SectionTypes {
		if s == t {
			return true
		}
	}
	return false
}

type Resume struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Sections  []Section `json:"sections"`
	Styling   Styling   `json:"styling"`
	Metadata  Metadata  `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section is one typed block of a resume. Content always matches Type;
// Section.UnmarshalJSON enforces it when decoding.
type Section struct {
	ID      string         `json:"id"`
	Type    SectionType    `json:"type"`
	Title   string         `json:"title"`
	Visible bool           `json:"visible"`
	Order   int            `json:"order"`
	Content SectionContent `json:"content"`
}

// Styling controls fonts, colours and page margins. A nil Margins means
// unset; explicit zero margins are kept by Normalized.
type Styling struct {
	FontFamily   string   `json:"font_family"`
	FontSize     float64  `json:"font_size"`
	PrimaryColor string   `json:"primary_color"`
	TextColor    string   `json:"text_color"`
	AccentColor  string   `json:"accent_color"`
	LineHeight   float64  `json:"line_height"`
	Margins      *Margins `json:"margins,omitempty"`
}

// Margins are expressed in millimetres.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type Metadata struct {
	PageCount      int        `json:"page_count"`
	WordCount      int        `json:"word_count"`
	LastExportedAt *time.Time `json:"last_exported_at,omitempty"`
}

// DefaultStyling is applied wherever a resume leaves styling fields empty.
func DefaultStyling() Styling {
	return Styling{
		FontFamily:   "Calibri",
		FontSize:     11,
		PrimaryColor: "#1f2937",
		TextColor:    "#111827",
		AccentColor:  "#2563eb",
		LineHeight:   1.4,
		Margins:      &Margins{Top: 20, Right: 20, Bottom: 20, Left: 20},
	}
}

// Normalized returns a copy of s with zero fields filled from DefaultStyling.
func (s Styling) Normalized() Styling {
	d := DefaultStyling()
	if s.FontFamily == "" {
		s.FontFamily = d.FontFamily
	}
	if s.FontSize <= 0 {
		s.FontSize = d.FontSize
	}
	if s.PrimaryColor == "" {
		s.PrimaryColor = d.PrimaryColor
	}
	if s.TextColor == "" {
		s.TextColor = d.TextColor
	}
	if s.AccentColor == "" {
		s.AccentColor = d.AccentColor
	}
	if s.LineHeight <= 0 {
		s.LineHeight = d.LineHeight
	}
	if s.Margins == nil {
		s.Margins = d.Margins
	} else {
		m := *s.Margins
		s.Margins = &m
	}
	return s
}

// OrderedVisibleSections returns the visible sections sorted by Order.
// Ties keep their position in the resume. The resume itself is not modified.
func (r *Resume) OrderedVisibleSections() []Section {
	if r == nil {
		return nil
	}
	out := make([]Section, 0, len(r.Sections))
	for _, s := range r.Sections {
		if s.Visible {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// PersonalInfo returns the first visible personal_info content, if any.
func (r *Resume) PersonalInfo() (PersonalInfo, bool) {
	for _, s := range r.OrderedVisibleSections() {
		if pi, ok := s.Content.(PersonalInfo); ok {
			return pi, true
		}
	}
	return PersonalInfo{}, false
}
