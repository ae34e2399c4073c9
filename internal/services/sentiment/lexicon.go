package sentiment

// valence maps lowercase terms to a polarity in [-4, 4], the range
// used by the VADER lexicon this table is distilled from. The set is
// weighted toward vocabulary that shows up in veterinary reviews.
var valence = map[string]float64{
	// Positive.
	"good":          1.9,
	"great":         3.1,
	"excellent":     3.2,
	"amazing":       2.8,
	"awesome":       3.1,
	"fantastic":     3.0,
	"wonderful":     2.7,
	"best":          3.2,
	"love":          3.2,
	"loved":         2.9,
	"like":          1.5,
	"liked":         1.7,
	"friendly":      2.2,
	"helpful":       1.8,
	"caring":        2.4,
	"compassionate": 2.5,
	"gentle":        1.9,
	"kind":          2.4,
	"clean":         1.6,
	"professional":  1.7,
	"knowledgeable": 2.0,
	"thorough":      1.6,
	"attentive":     1.8,
	"patient":       1.6,
	"recommend":     1.8,
	"recommended":   1.8,
	"happy":         2.7,
	"pleased":       2.1,
	"impressed":     2.2,
	"trust":         2.1,
	"comfortable":   1.7,
	"affordable":    1.6,
	"reasonable":    1.4,
	"quick":         1.2,
	"prompt":        1.4,
	"saved":         2.2,
	"thank":         1.7,
	"thanks":        1.9,

	// Negative.
	"bad":            -2.5,
	"terrible":       -3.1,
	"horrible":       -3.0,
	"awful":          -2.9,
	"worst":          -3.1,
	"hate":           -2.7,
	"hated":          -2.8,
	"rude":           -2.2,
	"dirty":          -2.0,
	"expensive":      -1.3,
	"overpriced":     -1.9,
	"slow":           -1.2,
	"wait":           -0.7,
	"waiting":        -0.9,
	"disappointed":   -2.2,
	"disappointing":  -2.2,
	"unprofessional": -2.4,
	"careless":       -2.3,
	"negligent":      -2.8,
	"died":           -3.0,
	"dead":           -2.9,
	"wrong":          -1.7,
	"mistake":        -1.8,
	"avoid":          -1.9,
	"poor":           -2.1,
	"scam":           -2.6,
	"painful":        -2.1,
	"uncaring":       -2.4,
	"cold":           -1.1,
	"dismissive":     -2.0,
	"refused":        -1.8,
	"misdiagnosed":   -2.7,
}

// negators invert the valence of the following sentiment word.
var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nor": {},
	"cannot": {}, "cant": {}, "wont": {}, "dont": {}, "didnt": {},
	"wasnt": {}, "isnt": {}, "arent": {}, "werent": {}, "wouldnt": {},
}

// boosters scale the valence of the following sentiment word.
var boosters = map[string]float64{
	"very": 0.293, "really": 0.293, "extremely": 0.293, "incredibly": 0.293,
	"so": 0.293, "absolutely": 0.293, "super": 0.293, "highly": 0.293,
	"slightly": -0.293, "somewhat": -0.293, "barely": -0.293,
}
