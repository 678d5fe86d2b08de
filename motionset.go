package motionblend

import (
	"fmt"
	"hash/fnv"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/tphakala/go-motion-blend/internal/engine"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/ini.v1"
)

// TagType identifies a family of synchronization tags.
type TagType = engine.TagType

// Tag marks a phase of a motion cycle at a normalized time.
type Tag = engine.Tag

// HashTagType returns the tag type identifier of a tag family name:
// the 32-bit FNV-1a hash of the name.
func HashTagType(name string) TagType {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return TagType(h.Sum32())
}

// HumanoidGait is the tag type of the humanoid gait states.
var HumanoidGait = HashTagType(HumanoidGaitName)

// gaitStateNames maps the humanoid gait state names accepted in motion set
// files to their state values.
var gaitStateNames = map[string]int{
	"leftfootcontact":   GaitLeftFootContact,
	"rightfootpassover": GaitRightFootPassover,
	"rightfootcontact":  GaitRightFootContact,
	"leftfootpassover":  GaitLeftFootPassover,
}

// Motion is one clip of a blend set.
type Motion struct {
	// Name identifies the motion in logs and tools.
	Name string

	// Duration is the clip length in seconds.
	Duration float64

	// Threshold is the blend parameter at which this motion has full weight.
	Threshold float64

	// Tags are the synchronization tags of the clip, ordered by normalized
	// time. Tags of other types than the set's TagType are ignored.
	Tags []Tag
}

// MotionSet is an ordered collection of motions blended by one parameter.
type MotionSet struct {
	// TagType selects which tags synchronize the motions.
	TagType TagType

	// Motions, ordered by non-decreasing Threshold.
	Motions []Motion
}

// Validate checks if the motion set is valid.
func (s *MotionSet) Validate() error {
	if len(s.Motions) == 0 {
		return fmt.Errorf("%w: motion set is empty", ErrInvalidConfig)
	}
	if len(s.Motions) > maxMotions {
		return fmt.Errorf("%w: too many motions (max %d)", ErrInvalidConfig, maxMotions)
	}

	for i, m := range s.Motions {
		if m.Duration <= 0 || math.IsNaN(m.Duration) || math.IsInf(m.Duration, 0) {
			return fmt.Errorf("%w: motion %d (%s): duration must be positive", ErrInvalidConfig, i, m.Name)
		}
		if math.IsNaN(m.Threshold) || math.IsInf(m.Threshold, 0) {
			return fmt.Errorf("%w: motion %d (%s): threshold must be finite", ErrInvalidConfig, i, m.Name)
		}
		if len(m.Tags) > maxTagsPerClip {
			return fmt.Errorf("%w: motion %d (%s): too many tags (max %d)", ErrInvalidConfig, i, m.Name, maxTagsPerClip)
		}
		for _, tag := range m.Tags {
			if tag.NormalizedTime < minNormalizedTs || tag.NormalizedTime > maxNormalizedTs {
				return fmt.Errorf("%w: motion %d (%s): tag time %v outside [0, 1]", ErrInvalidConfig, i, m.Name, tag.NormalizedTime)
			}
		}
		if !engine.TagsSorted(m.Tags) {
			return fmt.Errorf("%w: motion %d (%s): tags must be ordered by time", ErrInvalidConfig, i, m.Name)
		}
	}

	if !slices.IsSorted(s.Thresholds()) {
		return fmt.Errorf("%w: thresholds must be non-decreasing", ErrInvalidConfig)
	}
	return nil
}

// Thresholds returns the blend thresholds of all motions.
func (s *MotionSet) Thresholds() []float64 {
	out := make([]float64, len(s.Motions))
	for i, m := range s.Motions {
		out[i] = m.Threshold
	}
	return out
}

// Durations returns the clip durations of all motions.
func (s *MotionSet) Durations() []float64 {
	out := make([]float64, len(s.Motions))
	for i, m := range s.Motions {
		out[i] = m.Duration
	}
	return out
}

// syncTags returns, per motion, the tags of the set's tag type.
func (s *MotionSet) syncTags() [][]Tag {
	out := make([][]Tag, len(s.Motions))
	for i, m := range s.Motions {
		for _, tag := range m.Tags {
			if tag.Type == s.TagType {
				out[i] = append(out[i], tag)
			}
		}
	}
	return out
}

// LongestDuration returns the longest clip duration in the set.
func (s *MotionSet) LongestDuration() float64 {
	return floats.Max(s.Durations())
}

// Motion set file layout:
//
//	tag_type = HumanoidGait
//
//	[motion.walk]
//	duration  = 1.2
//	threshold = 0
//	tags      = 0.0:1, 0.25:2, 0.5:RightFootContact, 0.75:4
const (
	motionSectionPrefix = "motion."
	keyTagType          = "tag_type"
	keyDuration         = "duration"
	keyThreshold        = "threshold"
	keyTags             = "tags"
)

func iniLoadOptions() ini.LoadOptions {
	return ini.LoadOptions{
		Insensitive:             false,
		InsensitiveSections:     true,
		InsensitiveKeys:         true,
		IgnoreInlineComment:     false,
		SkipUnrecognizableLines: false,
		AllowShadows:            false,
		KeyValueDelimiters:      "=",
	}
}

// LoadMotionSet reads a motion set from an INI file.
func LoadMotionSet(path string) (*MotionSet, error) {
	f, err := ini.LoadSources(iniLoadOptions(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to load motion set %s: %w", path, err)
	}
	return parseMotionSet(f)
}

// ParseMotionSet reads a motion set from INI-formatted data.
func ParseMotionSet(data []byte) (*MotionSet, error) {
	f, err := ini.LoadSources(iniLoadOptions(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse motion set: %w", err)
	}
	return parseMotionSet(f)
}

func parseMotionSet(f *ini.File) (*MotionSet, error) {
	set := &MotionSet{TagType: HumanoidGait}

	if def, err := f.GetSection(ini.DEFAULT_SECTION); err == nil && def.HasKey(keyTagType) {
		name := strings.TrimSpace(def.Key(keyTagType).String())
		if name == "" {
			return nil, fmt.Errorf("%w: %s is empty", ErrInvalidConfig, keyTagType)
		}
		set.TagType = HashTagType(name)
	}

	for _, sec := range f.Sections() {
		name := sec.Name()
		if strings.EqualFold(name, ini.DEFAULT_SECTION) {
			continue
		}
		motionName, ok := strings.CutPrefix(name, motionSectionPrefix)
		if !ok {
			Logger().Warn("ignoring motion set section", "section", name)
			continue
		}

		m, err := parseMotion(motionName, sec, set.TagType)
		if err != nil {
			return nil, err
		}
		set.Motions = append(set.Motions, m)
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}
	Logger().Info("motion set loaded", "motions", len(set.Motions))
	return set, nil
}

func parseMotion(name string, sec *ini.Section, tagType TagType) (Motion, error) {
	m := Motion{Name: name}

	k, err := sec.GetKey(keyDuration)
	if err != nil {
		return m, fmt.Errorf("%w: motion %s: missing %s", ErrInvalidConfig, name, keyDuration)
	}
	if m.Duration, err = k.Float64(); err != nil {
		return m, fmt.Errorf("%w: motion %s: %s: %w", ErrInvalidConfig, name, keyDuration, err)
	}

	k, err = sec.GetKey(keyThreshold)
	if err != nil {
		return m, fmt.Errorf("%w: motion %s: missing %s", ErrInvalidConfig, name, keyThreshold)
	}
	if m.Threshold, err = k.Float64(); err != nil {
		return m, fmt.Errorf("%w: motion %s: %s: %w", ErrInvalidConfig, name, keyThreshold, err)
	}

	if sec.HasKey(keyTags) {
		if m.Tags, err = parseTags(sec.Key(keyTags).String(), tagType); err != nil {
			return m, fmt.Errorf("%w: motion %s: %w", ErrInvalidConfig, name, err)
		}
	}
	return m, nil
}

// parseTags parses a comma-separated list of time:state pairs. States are
// integers or humanoid gait state names.
func parseTags(raw string, tagType TagType) ([]Tag, error) {
	var tags []Tag
	for field := range strings.SplitSeq(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		timeStr, stateStr, ok := strings.Cut(field, ":")
		if !ok {
			return nil, fmt.Errorf("tag %q: want time:state", field)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(timeStr), 64)
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", field, err)
		}
		state, err := parseTagState(strings.TrimSpace(stateStr))
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", field, err)
		}
		tags = append(tags, Tag{Type: tagType, NormalizedTime: t, State: state})
	}
	return tags, nil
}

func parseTagState(s string) (int, error) {
	if v, ok := gaitStateNames[strings.ToLower(s)]; ok {
		return v, nil
	}
	return strconv.Atoi(s)
}
