package processor

import (
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// MapInfo is the map level metadata read by the client.
type MapInfo struct {
	Extent           *Extent `json:"extent,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	SpatialReference string  `json:"spatialReference"`
	Thumbnail        string  `json:"thumbnail,omitempty"`
}

// Extent is a bounding box in source coordinates.
type Extent struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// WriteMapInfo writes map_info.json with the union extent of the extracted
// layers. The extent is omitted when no layer carried geometry.
func (p *Processor) WriteMapInfo(res *ExtractResult) error {
	info := MapInfo{
		Title:            p.cfg.Map.Title,
		Description:      p.cfg.Map.Description,
		SpatialReference: p.cfg.Map.SpatialReference,
	}
	if res == nil {
		res = &ExtractResult{}
	}
	if res.Thumbnail != "" {
		info.Thumbnail = filepath.ToSlash(filepath.Join(filepath.Base(p.cfg.Output.ImagesDir), ThumbnailFile))
	}
	if res.Bounded {
		info.Extent = &Extent{
			XMin: res.Extent.Min.X(),
			YMin: res.Extent.Min.Y(),
			XMax: res.Extent.Max.X(),
			YMax: res.Extent.Max.Y(),
		}
	}

	path := p.dataPath(p.cfg.Output.MapInfo)
	if err := p.saveJSON(path, info, true); err != nil {
		return err
	}

	log.Debug().Str("path", path).Msg("Map info written")
	return nil
}
