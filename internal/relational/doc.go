// Package relational provides the handful of relational operators the
// feature builder needs, over plain typed slices: hash joins, a group-by
// that remembers first-seen key order, and small aggregates.
//
// Every operator returns fresh slices and leaves its inputs untouched.
package relational
