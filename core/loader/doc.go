// Package loader provides the feature registry that mounts HTTP routes.
//
// Each feature (catalog, collection, stats, integrity) implements Feature and
// is registered with a Manager; LoadAll mounts every enabled one.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
package loader
