// Package svg parses SVG documents into a flat shape list and renders
// them with a scanline rasterizer.
//
// # Overview
//
// svg is a pure Go SVG renderer designed to integrate with the GoGPU
// ecosystem. Parsing flattens the document tree into shapes whose
// geometry is stored as cubic Bezier paths in user space, with all
// transforms, styles and gradients resolved. Rasterization is a
// separate step, so a parsed Image can be rendered many times at
// different scales.
//
// # Quick Start
//
//	import "github.com/gogpu/svg"
//
//	img, err := svg.ParseFile("drawing.svg", "px", 96)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ras := svg.NewRasterizer()
//	out, err := ras.RasterizeToImage(img, 0, 0, 1, int(img.Width()), int(img.Height()))
//
// # Architecture
//
// The library is organized into:
//   - Public API: Image, Shape, Path, Paint, Gradient, Matrix, Rasterizer
//   - Internal: raster (scanline coverage, stroke expansion, paint ramps)
//
// Parsing is lenient: unsupported elements are skipped and malformed
// values fall back to defaults, matching how browsers treat SVG
// content. Only a structurally unusable document fails with ErrParse.
//
// The full SVG color keyword table is behind the svgcolorsfull build
// tag; the default build carries a small common subset.
package svg
