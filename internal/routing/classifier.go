// Package routing decides which directory page a `/<locality>/<segment>`
// path refers to. The second segment is ambiguous: it is either a category
// slug or a business slug, and only the category catalog can tell them apart.
package routing

import "github.com/bizdir/backend/internal/catalog"

// FallbackPath is where requests without a segment are sent.
const FallbackPath = "/business"

// reservedLocalities are first path segments owned by fixed routes; a
// locality with one of these names could never be reached.
var reservedLocalities = map[string]bool{
	"business": true,
	"health":   true,
	"v1":       true,
}

// IsReservedLocality reports whether locality collides with a fixed route.
func IsReservedLocality(locality string) bool {
	return reservedLocalities[locality]
}

// View is the outcome of classifying a request.
type View int

const (
	CategoryView View = iota + 1
	ProfileView
	Redirect
)

func (v View) String() string {
	switch v {
	case CategoryView:
		return "category"
	case ProfileView:
		return "profile"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Request is built per navigation from the two path segments.
type Request struct {
	Locality   string
	Segment    string
	HasSegment bool
}

// NewRequest returns a request with a present segment.
func NewRequest(locality, segment string) Request {
	return Request{Locality: locality, Segment: segment, HasSegment: true}
}

// WithoutSegment returns a request whose segment was not supplied.
func WithoutSegment(locality string) Request {
	return Request{Locality: locality}
}

// Decision tells the caller which view receives (Locality, Segment).
// Target is set only for Redirect.
type Decision struct {
	View     View
	Locality string
	Segment  string
	Target   string
}

// Membership is the read-only view of a catalog the classifier needs.
type Membership interface {
	Contains(slug string) bool
}

var _ Membership = (*catalog.Catalog)(nil)

// Classifier is safe for concurrent use as long as the catalog is not
// mutated, which *catalog.Catalog guarantees.
type Classifier struct {
	categories Membership
}

func NewClassifier(categories Membership) *Classifier {
	return &Classifier{categories: categories}
}

// Classify never fails. A missing segment should not reach here when the
// router is wired correctly; it is answered with a redirect to FallbackPath.
func (c *Classifier) Classify(req Request) Decision {
	if !req.HasSegment {
		return Decision{View: Redirect, Locality: req.Locality, Target: FallbackPath}
	}
	d := Decision{Locality: req.Locality, Segment: req.Segment, View: ProfileView}
	if c.categories.Contains(req.Segment) {
		d.View = CategoryView
	}
	return d
}
