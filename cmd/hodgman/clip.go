package main

import (
	"strconv"
	"strings"

	"github.com/chazu/hodgman/pkg/geom"
	"github.com/chazu/hodgman/pkg/scene"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	subjectFlag = "subject"
	boxFlag     = "box"
	regionFlag  = "region"
)

func newClipCmd(opts *options) *cobra.Command {
	var subject, box, region string

	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Clip one polygon given on the command line",
		Example: `  hodgman clip --subject "1,2 2,1 4,1 4,2 3,3" --box 0,0,2.5,2.5
  hodgman clip --subject "0,0 4,0 0,4" --region "1,1 3,1 1,3" --format svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := buildClipScene(subject, box, region)
			if err != nil {
				return err
			}

			result := NewApp(opts).Run(s, Result{})
			if len(result.Errors) > 0 {
				return errors.New(result.Errors[0].Message)
			}
			return writeOutputs(cmd, opts, result.Outputs, true)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&subject, subjectFlag, "s", "", `subject vertices, "x,y x,y ..."`)
	f.StringVarP(&box, boxFlag, "b", "", "axis-aligned region, xmin,ymin,xmax,ymax")
	f.StringVarP(&region, regionFlag, "r", "", `convex counter-clockwise region vertices, "x,y x,y ..."`)
	_ = cmd.MarkFlagRequired(subjectFlag)
	cmd.MarkFlagsMutuallyExclusive(boxFlag, regionFlag)
	return cmd
}

// buildClipScene returns a scene with one clip of subject by the box or
// the region polygon.
func buildClipScene(subject, box, region string) (*scene.Scene, error) {
	sp, err := parseVertices(subject)
	if err != nil {
		return nil, errors.Wrap(err, subjectFlag)
	}

	s := scene.New()
	subj := &scene.Node{
		ID:   scene.NewNodeID("polygon/subject"),
		Kind: scene.NodePolygon,
		Name: "subject",
		Data: scene.PolygonData{Vertices: sp},
	}

	var reg *scene.Node
	switch {
	case box != "":
		b, err := parseBox(box)
		if err != nil {
			return nil, errors.Wrap(err, boxFlag)
		}
		reg = &scene.Node{ID: scene.NewNodeID("box/region"), Kind: scene.NodeBox, Name: "region", Data: scene.BoxData{Box: b}}
	case region != "":
		rp, err := parseVertices(region)
		if err != nil {
			return nil, errors.Wrap(err, regionFlag)
		}
		reg = &scene.Node{ID: scene.NewNodeID("polygon/region"), Kind: scene.NodePolygon, Name: "region", Data: scene.PolygonData{Vertices: rp}}
	default:
		return nil, errors.New("one of --box or --region is required")
	}

	c := &scene.Node{
		ID:       scene.NewNodeID("clip/result"),
		Kind:     scene.NodeClip,
		Name:     "result",
		Children: []scene.NodeID{subj.ID, reg.ID},
		Data:     scene.ClipData{Subject: subj.ID, Region: reg.ID},
	}
	s.AddNode(subj)
	s.AddNode(reg)
	s.AddNode(c)
	s.AddRoot(c.ID)
	return s, nil
}

// parseVertices reads whitespace-separated "x,y" pairs.
func parseVertices(s string) (geom.Polygon, error) {
	var p geom.Polygon
	for _, pair := range strings.Fields(s) {
		xy, err := parseFloats(pair, 2)
		if err != nil {
			return nil, errors.Wrapf(err, "vertex %q", pair)
		}
		p = append(p, geom.V(xy[0], xy[1]))
	}
	return p, nil
}

// parseBox reads "xmin,ymin,xmax,ymax".
func parseBox(s string) (geom.Box, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return geom.Box{}, err
	}
	return geom.NewBox(v[0], v[1], v[2], v[3])
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Errorf("want %d comma-separated numbers, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "number %d", i+1)
		}
		out[i] = f
	}
	return out, nil
}
