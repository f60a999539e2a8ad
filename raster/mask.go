package raster

import "image"

// DiskOffsets returns every integer offset (dx, dy) with dx²+dy² ≤ r².
// A non-positive radius yields only the origin.
func DiskOffsets(r int) []image.Point {
	if r <= 0 {
		return []image.Point{{}}
	}
	var pts []image.Point
	rr := r * r
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= rr {
				pts = append(pts, image.Pt(dx, dy))
			}
		}
	}
	return pts
}

// Dilate returns a new mask where every pixel holds the maximum coverage of
// src over a disk of radius r around it. Coverage is written to all three
// colour lanes.
func Dilate(src Surface, r int) *MemSurface {
	w, h := src.Size()
	out := newMemSurface(w, h, BGRA)
	cov := make([]uint8, w*h)

	sp := src.Pix()
	for i := range cov {
		cov[i] = uint8(maxLane(sp[i*4 : i*4+4]))
	}

	acc := make([]uint8, w*h)
	offsets := DiskOffsets(r)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := cov[y*w+x]
			if c == 0 {
				continue
			}
			for _, d := range offsets {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				if i := ny*w + nx; c > acc[i] {
					acc[i] = c
				}
			}
		}
	}

	op := out.Pix()
	for i, c := range acc {
		op[i*4], op[i*4+1], op[i*4+2] = c, c, c
	}
	return out
}
