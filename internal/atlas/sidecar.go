package atlas

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// WriteSidecar writes the §4.12 step 6 TSV: one line per packed sprite,
// columns atlas_x, atlas_y, atlas_w, atlas_h, crop_src_x, crop_src_y,
// orig_w, orig_h, group_item.
func (p *Plan) WriteSidecar(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range p.Entries {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d_%d\n",
			e.AtlasX, e.AtlasY, e.AtlasW, e.AtlasH,
			e.CropSrcX, e.CropSrcY,
			e.OrigW, e.OrigH,
			e.Group, e.Item); err != nil {
			return errors.Wrap(err, "atlas: writing sidecar row")
		}
	}
	return bw.Flush()
}
