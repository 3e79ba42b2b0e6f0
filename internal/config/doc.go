// Package config provides configuration structures and utilities for
// impactradar. It holds export settings, archive location and the optional
// .impactradar file that supplies defaults for them.
package config
