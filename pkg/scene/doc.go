// Package scene defines the scene graph for hodgman.
// A scene is a DAG of named polygons, boxes and clip operations produced
// by one evaluation of a script; it is never mutated once evaluation ends.
package scene
