package antrag

import (
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/piratetools42/antragsbuch/pkg/constants"
	"github.com/piratetools42/antragsbuch/pkg/errors"
)

// Replacement is a literal text substitution.
type Replacement struct {
	Old string `yaml:"old" json:"old"`
	New string `yaml:"new" json:"new"`
}

// PrepareOptions selects optional cleanup steps of the prepare command.
type PrepareOptions struct {
	// TitleBreaks replaces <br> elements in titles with " - ".
	TitleBreaks bool `yaml:"title_breaks" json:"title_breaks"`
	// StripTeX removes \label{...} and \hyperref[...]{...} from text and motivation.
	StripTeX bool `yaml:"strip_tex" json:"strip_tex"`
}

// Profile is the static, per-conference configuration for reading and
// deriving motions.
type Profile struct {
	Conference       string                   `yaml:"conference" json:"conference"`
	Fields           FieldMapping             `yaml:"fields" json:"fields"`
	CodeTranslation  map[string]string        `yaml:"code_translation" json:"code_translation,omitempty"`
	AdditionalTags   []string                 `yaml:"additional_tags" json:"additional_tags,omitempty"`
	UnscheduledTag   string                   `yaml:"unscheduled_tag" json:"unscheduled_tag"`
	DefaultChanged   string                   `yaml:"default_changed" json:"default_changed"`
	OwnerUserID      int                      `yaml:"owner_user_id" json:"owner_user_id"`
	GroupID          int                      `yaml:"group_id" json:"group_id"`
	WikiBaseURI      string                   `yaml:"wiki_base_uri" json:"wiki_base_uri"`
	ArgumentsBaseURI string                   `yaml:"arguments_base_uri" json:"arguments_base_uri"`
	Removed          []string                 `yaml:"removed" json:"removed,omitempty"`
	DetailFixes      map[string][]Replacement `yaml:"detail_fixes" json:"detail_fixes,omitempty"`
	Prepare          PrepareOptions           `yaml:"prepare" json:"prepare"`
}

// DefaultProfile returns the profile used for the 2014.1 federal party conference.
func DefaultProfile() *Profile {
	return &Profile{
		Conference:       "BPT14.1",
		Fields:           DefaultFieldMapping(),
		CodeTranslation:  map[string]string{},
		AdditionalTags:   []string{"BPT14.1"},
		UnscheduledTag:   constants.DefaultUnscheduledTag,
		DefaultChanged:   constants.DefaultFieldValue,
		OwnerUserID:      constants.DefaultOwnerUserID,
		GroupID:          constants.DefaultGroupID,
		WikiBaseURI:      "http://wiki.piratenpartei.de/Antrag:Bundesparteitag_2014.1/Antragsportal/",
		ArgumentsBaseURI: "http://bptarguments.piratenpartei.de/141/",
	}
}

// LoadProfile reads a YAML profile. Settings missing from the file keep
// their DefaultProfile value. The result is validated.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ParseProfile(data, path)
}

// ParseProfile parses YAML profile data. name is used in error messages.
func ParseProfile(data []byte, name string) (*Profile, error) {
	var file Profile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", name, err)
	}

	p := DefaultProfile().overlay(&file)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) overlay(o *Profile) *Profile {
	if o.Conference != "" {
		p.Conference = o.Conference
	}
	p.Fields = p.Fields.overlay(o.Fields)
	if o.CodeTranslation != nil {
		p.CodeTranslation = o.CodeTranslation
	}
	if o.AdditionalTags != nil {
		p.AdditionalTags = o.AdditionalTags
	}
	if o.UnscheduledTag != "" {
		p.UnscheduledTag = o.UnscheduledTag
	}
	if o.DefaultChanged != "" {
		p.DefaultChanged = o.DefaultChanged
	}
	if o.OwnerUserID != 0 {
		p.OwnerUserID = o.OwnerUserID
	}
	if o.GroupID != 0 {
		p.GroupID = o.GroupID
	}
	if o.WikiBaseURI != "" {
		p.WikiBaseURI = o.WikiBaseURI
	}
	if o.ArgumentsBaseURI != "" {
		p.ArgumentsBaseURI = o.ArgumentsBaseURI
	}
	if o.Removed != nil {
		p.Removed = o.Removed
	}
	if o.DetailFixes != nil {
		p.DetailFixes = o.DetailFixes
	}
	p.Prepare.TitleBreaks = p.Prepare.TitleBreaks || o.Prepare.TitleBreaks
	p.Prepare.StripTeX = p.Prepare.StripTeX || o.Prepare.StripTeX
	return p
}

// Validate checks the profile once before any record is processed.
func (p *Profile) Validate() error {
	if p == nil {
		return errors.NewValidationError("profile", nil, "profile is required")
	}
	if err := p.Fields.Validate(); err != nil {
		return err
	}
	for code, translated := range p.CodeTranslation {
		if code == "" || translated == "" {
			return errors.NewValidationError("code_translation", code, "codes must not be empty")
		}
	}
	for _, tag := range p.AdditionalTags {
		if strings.TrimSpace(tag) == "" {
			return errors.NewValidationError("additional_tags", tag, "tags must not be empty")
		}
	}
	if strings.TrimSpace(p.UnscheduledTag) == "" {
		return errors.NewValidationError("unscheduled_tag", p.UnscheduledTag, "must not be empty")
	}
	if p.OwnerUserID <= 0 {
		return errors.NewValidationError("owner_user_id", p.OwnerUserID, "must be positive")
	}
	if p.GroupID < 0 {
		return errors.NewValidationError("group_id", p.GroupID, "must not be negative")
	}
	return nil
}

// IsRemoved reports whether id is listed in the profile's removed ids.
func (p *Profile) IsRemoved(id string) bool {
	for _, r := range p.Removed {
		if r == id {
			return true
		}
	}
	return false
}
