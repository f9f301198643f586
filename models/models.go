package models

import (
	"time"
)

// Body identifies a tracked celestial body.
type Body string

const (
	Sun       Body = "sun"
	Moon      Body = "moon"
	Mercury   Body = "mercury"
	Venus     Body = "venus"
	Mars      Body = "mars"
	Jupiter   Body = "jupiter"
	Saturn    Body = "saturn"
	Uranus    Body = "uranus"
	Neptune   Body = "neptune"
	Pluto     Body = "pluto"
	NorthNode Body = "north_node"
	SouthNode Body = "south_node" // derived from the north node, never queried
)

// TrackedBodies are the bodies requested from the ephemeris, in canonical order.
var TrackedBodies = []Body{
	Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto, NorthNode,
}

// ZodiacSigns maps sign index (longitude/30) to sign name.
var ZodiacSigns = [12]string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// HouseSystem selects the house calculation method.
type HouseSystem string

const (
	Placidus      HouseSystem = "placidus"
	Koch          HouseSystem = "koch"
	Campanus      HouseSystem = "campanus"
	Regiomontanus HouseSystem = "regiomontanus"
	Equal         HouseSystem = "equal"
	WholeSign     HouseSystem = "whole_sign"
)

// AspectType names a geometric relationship between two bodies.
type AspectType string

const (
	Conjunction  AspectType = "conjunction"
	Sextile      AspectType = "sextile"
	Square       AspectType = "square"
	Trine        AspectType = "trine"
	Quincunx     AspectType = "quincunx"
	Opposition   AspectType = "opposition"
	Semisextile  AspectType = "semisextile"
	Semisquare   AspectType = "semisquare"
	Sesquisquare AspectType = "sesquisquare"
)

// Category is a life area a prediction targets. Unknown categories are a
// construction-time error, not a silent miss.
type Category string

const (
	CategoryLove    Category = "love"
	CategoryCareer  Category = "career"
	CategoryFinance Category = "finance"
	CategoryHealth  Category = "health"
	CategorySocial  Category = "social"
	CategoryTravel  Category = "travel"
)

// AllCategories in canonical order.
var AllCategories = []Category{
	CategoryLove, CategoryCareer, CategoryFinance,
	CategoryHealth, CategorySocial, CategoryTravel,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// VerificationStatus is the prediction outcome state. pending is the only
// non-terminal state; a prediction never returns to it.
type VerificationStatus string

const (
	StatusPending           VerificationStatus = "pending"
	StatusVerified          VerificationStatus = "verified"
	StatusUserConfirmed     VerificationStatus = "user_confirmed"
	StatusPartiallyAccurate VerificationStatus = "partially_accurate"
	StatusUserDenied        VerificationStatus = "user_denied"
	StatusExpired           VerificationStatus = "expired"
)

// Terminal reports whether the status can no longer change.
func (s VerificationStatus) Terminal() bool {
	return s != StatusPending
}

// Accurate reports whether the status counts as a successful outcome for
// analytics and template success rates.
func (s VerificationStatus) Accurate() bool {
	return s == StatusVerified || s == StatusUserConfirmed
}

// Feedback type constants accepted from callers.
const (
	FeedbackAccurate          = "accurate"
	FeedbackPartiallyAccurate = "partially_accurate"
	FeedbackInaccurate        = "inaccurate"
)

// Subscription status constants.
const (
	SubscriptionPending  = "pending"
	SubscriptionAccepted = "accepted"
	SubscriptionClosed   = "closed"
)

// BirthData is the immutable input to a birth chart. Revision is bumped on
// every correction so cached charts computed from stale data become
// unreachable.
type BirthData struct {
	UserID      int64       `json:"user_id"`
	BirthUTC    time.Time   `json:"birth_utc"`
	TimeKnown   bool        `json:"time_known"` // false means noon was assumed
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	Timezone    string      `json:"timezone"`
	HouseSystem HouseSystem `json:"house_system"`
	Revision    int         `json:"revision"`
}

// Complete reports whether the data suffices for personalized generation.
func (b BirthData) Complete() bool {
	return b.UserID != 0 && !b.BirthUTC.IsZero() &&
		b.Latitude >= -90 && b.Latitude <= 90 &&
		b.Longitude >= -180 && b.Longitude <= 180
}

// Position is a fully annotated body position.
type Position struct {
	Body       Body    `json:"body"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	Distance   float64 `json:"distance"`
	Speed      float64 `json:"speed"`
	Sign       string  `json:"sign"`
	Degree     float64 `json:"degree"`
	Retrograde bool    `json:"retrograde"`
	House      int     `json:"house"` // solar house unless cusps were computed
}

// Aspect is a detected angular relationship within its type's orb tolerance.
type Aspect struct {
	BodyA    Body       `json:"body_a"`
	BodyB    Body       `json:"body_b"`
	Type     AspectType `json:"type"`
	Angle    float64    `json:"angle"`
	Orb      float64    `json:"orb"`
	Strength float64    `json:"strength"` // 1.0 exact, ->0 at the tolerance edge
	Exact    bool       `json:"exact"`    // orb < 1 degree
	Applying bool       `json:"applying,omitempty"`
}

// BirthChart holds everything computed once from BirthData.
type BirthChart struct {
	UserID      int64             `json:"user_id"`
	Revision    int               `json:"revision"`
	JulianDay   float64           `json:"julian_day"`
	Positions   map[Body]Position `json:"positions"`
	Cusps       [12]float64       `json:"cusps"`
	Ascendant   float64           `json:"ascendant"`
	Midheaven   float64           `json:"midheaven"`
	Descendant  float64           `json:"descendant"`
	ImumCoeli   float64           `json:"imum_coeli"`
	Aspects     []Aspect          `json:"aspects"`
	Approximate bool              `json:"approximate"` // degraded ephemeris
	ComputedAt  time.Time         `json:"computed_at"`
}

// TransitSnapshot holds current positions shared by every user on a date.
type TransitSnapshot struct {
	Date        string            `json:"date"` // YYYY-MM-DD, UTC
	JulianDay   float64           `json:"julian_day"`
	Positions   map[Body]Position `json:"positions"`
	LunarPhase  LunarPhase        `json:"lunar_phase"`
	Approximate bool              `json:"approximate"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// LunarPhase is one of the eight named phase buckets with its boost weight.
type LunarPhase struct {
	Name  string  `json:"name"`
	Angle float64 `json:"angle"` // moon minus sun longitude, 0..360
	Boost float64 `json:"boost"`
}

// Factor is one contribution to a prediction's confidence, kept structured so
// the template renderer can name its planet/aspect/house.
type Factor struct {
	Text     string     `json:"text"`
	Body     Body       `json:"body,omitempty"`
	Aspect   AspectType `json:"aspect,omitempty"`
	House    int        `json:"house,omitempty"`
	Strength float64    `json:"strength,omitempty"`
}

// Potential is the analyzer output fed into template selection.
type Potential struct {
	Category   Category `json:"category"`
	Confidence float64  `json:"confidence"`
	Factors    []Factor `json:"factors"`
}

// Prediction is the persisted, verifiable unit of output.
type Prediction struct {
	ID               string             `json:"id"`
	UserID           int64              `json:"user_id"`
	Category         Category           `json:"category"`
	ConfidenceScore  float64            `json:"confidence_score"`
	Content          string             `json:"content"`
	Basis            []string           `json:"astrological_basis"`
	SpecificityScore float64            `json:"specificity_score"`
	TimeframeHours   int                `json:"timeframe_hours"`
	TemplateID       int64              `json:"template_id,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	ExpiresAt        time.Time          `json:"expires_at"`
	Status           VerificationStatus `json:"verification_status"`
}

// PredictionFeedback is a user's outcome report for one prediction.
type PredictionFeedback struct {
	PredictionID   string    `json:"prediction_id"`
	AccuracyRating int       `json:"accuracy_rating"` // 1-5
	FeedbackType   string    `json:"feedback_type"`
	Outcome        string    `json:"outcome,omitempty"`
	HelpfulRating  int       `json:"helpful_rating,omitempty"` // 1-5
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Template is a phrasing pattern with its learned weighting.
type Template struct {
	ID                   int64    `json:"id"`
	Category             Category `json:"category"`
	Pattern              string   `json:"content_pattern"`
	ConfidenceMultiplier float64  `json:"confidence_multiplier"` // [0.1, 2.0]
	SuccessRate          float64  `json:"success_rate"`          // [0, 1]
	UsageCount           int64    `json:"usage_count"`
}

// Alert kinds scheduled around a prediction's expiry.
const (
	AlertUpcoming             = "upcoming"
	AlertImminent             = "imminent"
	AlertFinal                = "final"
	AlertVerificationReminder = "verification_reminder"
)

// Alert is one scheduled notification slot. Delivery happens elsewhere.
type Alert struct {
	PredictionID string    `json:"prediction_id"`
	Kind         string    `json:"kind"`
	ScheduledAt  time.Time `json:"scheduled_at"`
}

// GenerationResult is the caller-facing shape returned from generation.
type GenerationResult struct {
	PredictionID   string   `json:"prediction_id"`
	Content        string   `json:"content"`
	Confidence     float64  `json:"confidence"`
	Category       Category `json:"category"`
	TimeframeHours int      `json:"timeframe_hours"`
	Reasoning      []string `json:"reasoning"`
	AlertSchedule  []Alert  `json:"alert_schedule"`
}

// VerificationResult is returned after a successful status transition.
type VerificationResult struct {
	Status          VerificationStatus `json:"status"`
	UserSuccessRate float64            `json:"user_success_rate"`
}

// UserAnalytics is the per-user rolling summary.
type UserAnalytics struct {
	UserID           int64    `json:"user_id"`
	TotalPredictions int      `json:"total_predictions"`
	Resolved         int      `json:"resolved"`
	Accurate         int      `json:"accurate"`
	SuccessRate      float64  `json:"success_rate"`
	AvgConfidence    float64  `json:"avg_confidence"`
	AvgAccuracy      float64  `json:"avg_accuracy"`
	CategoriesUsed   []string `json:"categories_used"`
}

// CategoryAnalytics is the per-category rolling summary used by learning.
type CategoryAnalytics struct {
	Category      Category `json:"category"`
	Total         int      `json:"total"`
	Resolved      int      `json:"resolved"`
	Accurate      int      `json:"accurate"`
	AvgConfidence float64  `json:"avg_confidence"`
	AvgAccuracy   float64  `json:"avg_accuracy"`
}

// FeedbackSample pairs a prediction's original confidence with the accuracy
// its user reported; batches of these drive the learning nudges.
type FeedbackSample struct {
	FeedbackID int64   `json:"feedback_id"`
	Confidence float64 `json:"confidence"`
	Accuracy   int     `json:"accuracy"` // 1-5
}

// UserSubscription gates premium categories. Payment handling lives outside
// this engine; only the resulting status matters here.
type UserSubscription struct {
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"` // pending, accepted, closed
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the subscription currently grants premium access.
func (s *UserSubscription) Active(now time.Time) bool {
	return s != nil && s.Status == SubscriptionAccepted && now.Before(s.ExpiresAt)
}
