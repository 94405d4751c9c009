// Package watch reruns generation when schema files change.
package watch
