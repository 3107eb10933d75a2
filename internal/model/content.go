package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SectionContent is the closed set of payloads a Section can carry.
// Only the types in this file implement it.
type SectionContent interface {
	SectionType() SectionType
	sectionContent()
}

type PersonalInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Summary  string `json:"summary"`
}

type Education struct {
	Institution  string   `json:"institution"`
	Degree       string   `json:"degree"`
	FieldOfStudy string   `json:"field_of_study"`
	Location     string   `json:"location"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Current      bool     `json:"current"`
	GPA          string   `json:"gpa"`
	Achievements []string `json:"achievements"`
}

type Experience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Current      bool     `json:"current"`
	Description  string   `json:"description"`
	Achievements []string `json:"achievements"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url"`
	GitHub       string   `json:"github"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Highlights   []string `json:"highlights"`
}

type SkillCategory struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	ExpiryDate   string `json:"expiry_date"`
	CredentialID string `json:"credential_id"`
	URL          string `json:"url"`
}

type Award struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type CustomEntry struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

type CustomContent struct {
	Entries []CustomEntry `json:"entries"`
}

type (
	EducationList     []Education
	ExperienceList    []Experience
	ProjectList       []Project
	SkillList         []SkillCategory
	CertificationList []Certification
	AwardList         []Award
)

func (PersonalInfo) SectionType() SectionType      { return SectionPersonalInfo }
func (EducationList) SectionType() SectionType     { return SectionEducation }
func (ExperienceList) SectionType() SectionType    { return SectionExperience }
func (ProjectList) SectionType() SectionType       { return SectionProjects }
func (SkillList) SectionType() SectionType         { return SectionSkills }
func (CertificationList) SectionType() SectionType { return SectionCertifications }
func (AwardList) SectionType() SectionType         { return SectionAwards }
func (CustomContent) SectionType() SectionType     { return SectionCustom }

func (PersonalInfo) sectionContent()      {}
func (EducationList) sectionContent()     {}
func (ExperienceList) sectionContent()    {}
func (ProjectList) sectionContent()       {}
func (SkillList) sectionContent()         {}
func (CertificationList) sectionContent() {}
func (AwardList) sectionContent()         {}
func (CustomContent) sectionContent()     {}

// newContent returns a pointer to an empty payload for t.
func newContent(t SectionType) (any, error) {
	switch t {
	case SectionPersonalInfo:
		return &PersonalInfo{}, nil
	case SectionEducation:
		return &EducationList{}, nil
	case SectionExperience:
		return &ExperienceList{}, nil
	case SectionProjects:
		return &ProjectList{}, nil
	case SectionSkills:
		return &SkillList{}, nil
	case SectionCertifications:
		return &CertificationList{}, nil
	case SectionAwards:
		return &AwardList{}, nil
	case SectionCustom:
		return &CustomContent{}, nil
	default:
		return nil, fmt.Errorf("unknown section type %q", t)
	}
}

func deref(p any) SectionContent {
	switch v := p.(type) {
	case *PersonalInfo:
		return *v
	case *EducationList:
		return *v
	case *ExperienceList:
		return *v
	case *ProjectList:
		return *v
	case *SkillList:
		return *v
	case *CertificationList:
		return *v
	case *AwardList:
		return *v
	case *CustomContent:
		return *v
	}
	return nil
}

// MarshalJSON rejects sections whose content does not match their type.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.Content != nil && s.Content.SectionType() != s.Type {
		return nil, fmt.Errorf("section %q: content is %s, type is %s", s.ID, s.Content.SectionType(), s.Type)
	}
	type plain Section
	return json.Marshal(plain(s))
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID      string          `json:"id"`
		Type    SectionType     `json:"type"`
		Title   string          `json:"title"`
		Visible bool            `json:"visible"`
		Order   int             `json:"order"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	target, err := newContent(aux.Type)
	if err != nil {
		return err
	}
	*s = Section{ID: aux.ID, Type: aux.Type, Title: aux.Title, Visible: aux.Visible, Order: aux.Order}
	raw := bytes.TrimSpace(aux.Content)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("section %q (%s): %w", aux.ID, aux.Type, err)
	}
	s.Content = deref(target)
	return nil
}
