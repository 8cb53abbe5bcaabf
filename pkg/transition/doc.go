// Package transition decides, per location change, whether to animate,
// in which direction, and keeps the outgoing screen mounted for exactly
// one extra render cycle. Direction is derived from backlink identity
// rather than the native action, so a deep-linked or replayed backward
// step still animates backward.
package transition
