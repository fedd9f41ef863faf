package libgpu

import "fmt"

// Readback copies one mip level of a texture (face selects the layer when
// src is a cube texture) into a CPU buffer of packed RGBA16F pixels. It
// blits into a short-lived staging texture, submits the frame, then busy
// waits on Frame until the device reports the read's token complete.
// This is the pipeline's only blocking point; keeping it synchronous
// bounds peak memory and keeps container output ordering deterministic.
func Readback(dev Device, view ViewId, src TextureHandle, srcFace, srcMip, width, height int) ([]byte, error) {
	staging, err := dev.CreateTexture2D(width, height, TexRGBA16F, FlagBlitDst|FlagReadBack, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot create %dx%d staging texture: %w", width, height, err)
	}
	defer dev.DestroyTexture(staging)

	dev.Blit(view, staging, 0, 0, src, srcFace, srcMip)

	dst := make([]byte, width*height*8)
	token := dev.ReadTexture(staging, dst)
	for dev.Frame() < token {
	}
	return dst, nil
}
