package layout

// Params holds every tuning constant of the layout engine. The zero value is
// not useful; start from [DefaultParams] and override fields.
//
// The struct tags let the same value be loaded from a config file, carried in
// an API request and validated by the caller.
type Params struct {
	// TopicRadius and ConceptRadius are the base radii per node kind.
	TopicRadius   float64 `json:"topic_radius" toml:"topic_radius" yaml:"topic_radius" validate:"gt=0"`
	ConceptRadius float64 `json:"concept_radius" toml:"concept_radius" yaml:"concept_radius" validate:"gt=0"`

	// Topics render their name below the circle. The layout radius of a topic
	// adds max(TopicLabelMin, labelHeight*TopicLabelScale) of clearance.
	TopicLabelMin   float64 `json:"topic_label_min" toml:"topic_label_min" yaml:"topic_label_min" validate:"gte=0"`
	TopicLabelScale float64 `json:"topic_label_scale" toml:"topic_label_scale" yaml:"topic_label_scale" validate:"gte=0"`

	// RadiusGap is added to the summed layout radii of a pair; LabelGap to
	// the summed label half extents. The larger of the two is required.
	RadiusGap float64 `json:"radius_gap" toml:"radius_gap" yaml:"radius_gap" validate:"gte=0"`
	LabelGap  float64 `json:"label_gap" toml:"label_gap" yaml:"label_gap" validate:"gte=0"`

	MaxPasses int     `json:"max_passes" toml:"max_passes" yaml:"max_passes" validate:"gte=1,lte=100"`
	Jitter    float64 `json:"jitter" toml:"jitter" yaml:"jitter" validate:"gt=0"`

	// The cluster band of a concept around its parent P is
	// [r(P)+ConceptRadius+ClusterGap, r(P)+ConceptRadius+ClusterOffset].
	ClusterGap    float64 `json:"cluster_gap" toml:"cluster_gap" yaml:"cluster_gap" validate:"gte=0"`
	ClusterOffset float64 `json:"cluster_offset" toml:"cluster_offset" yaml:"cluster_offset" validate:"gtefield=ClusterGap"`

	// CenterTolerance is the per-axis centroid drift below which recentering
	// leaves the layout alone.
	CenterTolerance float64 `json:"center_tolerance" toml:"center_tolerance" yaml:"center_tolerance" validate:"gte=0"`

	Label LabelParams `json:"label" toml:"label" yaml:"label"`
}

// LabelParams controls the label footprint estimate.
type LabelParams struct {
	LineChars  int     `json:"line_chars" toml:"line_chars" yaml:"line_chars" validate:"gte=1"`
	CharWidth  float64 `json:"char_width" toml:"char_width" yaml:"char_width" validate:"gt=0"`
	PadX       float64 `json:"pad_x" toml:"pad_x" yaml:"pad_x" validate:"gte=0"`
	LineHeight float64 `json:"line_height" toml:"line_height" yaml:"line_height" validate:"gt=0"`
	PadY       float64 `json:"pad_y" toml:"pad_y" yaml:"pad_y" validate:"gte=0"`

	MinWidth  float64 `json:"min_width" toml:"min_width" yaml:"min_width" validate:"gt=0"`
	MaxWidth  float64 `json:"max_width" toml:"max_width" yaml:"max_width" validate:"gtefield=MinWidth"`
	MinHeight float64 `json:"min_height" toml:"min_height" yaml:"min_height" validate:"gt=0"`
	MaxHeight float64 `json:"max_height" toml:"max_height" yaml:"max_height" validate:"gtefield=MinHeight"`

	// EmptyWidth and EmptyHeight are used for blank labels.
	EmptyWidth  float64 `json:"empty_width" toml:"empty_width" yaml:"empty_width" validate:"gt=0"`
	EmptyHeight float64 `json:"empty_height" toml:"empty_height" yaml:"empty_height" validate:"gt=0"`
}

// Default engine constants.
const (
	DefaultTopicRadius   = 120.0
	DefaultConceptRadius = 72.0
	DefaultMaxPasses     = 6
	DefaultJitter        = 0.5
	DefaultClusterGap    = 56.0
	DefaultClusterOffset = 220.0
)

// DefaultParams returns the engine's standard tuning.
func DefaultParams() Params {
	return Params{
		TopicRadius:     DefaultTopicRadius,
		ConceptRadius:   DefaultConceptRadius,
		TopicLabelMin:   48,
		TopicLabelScale: 0.75,
		RadiusGap:       16,
		LabelGap:        20,
		MaxPasses:       DefaultMaxPasses,
		Jitter:          DefaultJitter,
		ClusterGap:      DefaultClusterGap,
		ClusterOffset:   DefaultClusterOffset,
		CenterTolerance: 1,
		Label: LabelParams{
			LineChars:   14,
			CharWidth:   8.2,
			PadX:        32,
			LineHeight:  24,
			PadY:        36,
			MinWidth:    110,
			MaxWidth:    240,
			MinHeight:   60,
			MaxHeight:   220,
			EmptyWidth:  96,
			EmptyHeight: 56,
		},
	}
}

// eps absorbs floating point error in threshold comparisons, so a pair placed
// exactly at its required separation is not nudged again.
const eps = 1e-9
