package ibl_test

import (
	"image"
	"strings"
	"testing"

	"texc/ibl"
	"texc/libbc"
	"texc/libgpu"
	"texc/libgpu/gputest"
	"texc/libimg"

	"github.com/go-gl/mathgl/mgl32"
)

func panoramaFixture(w, h int) *libimg.RgbaHdr {
	return &libimg.RgbaHdr{
		Pix:    make([]float32, w*h*4),
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}

func countEvents(dev *gputest.Device, prefix string) int {
	n := 0
	for _, e := range dev.Events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

func halfPixel(t *testing.T, data []byte, i int) uint16 {
	t.Helper()
	return uint16(data[i*2]) | uint16(data[i*2+1])<<8
}

func TestCaptureRendersEveryFaceAndMip(t *testing.T) {
	dev := gputest.NewDevice()
	dev.Latency = 2

	p, err := ibl.NewPipeline(dev)
	if err != nil {
		t.Fatal(err)
	}

	var va libgpu.ViewAlloc
	c, err := p.Capture(&va, panoramaFixture(4, 2), 4)
	if err != nil {
		t.Fatal(err)
	}
	if c.Mips != 3 {
		t.Fatalf("a size 4 capture should have 3 mips but had %d", c.Mips)
	}

	// one draw and one blit per face and mip
	if n := countEvents(dev, "submit "); n != 6*3 {
		t.Errorf("capture should submit %d draws but submitted %d", 6*3, n)
	}
	if n := countEvents(dev, "blit "); n != 6*3 {
		t.Errorf("capture should blit %d faces but blitted %d", 6*3, n)
	}

	data, err := c.ReadFace(&va, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 2*2*8 {
		t.Fatalf("a mip 1 face should read back %d bytes but read %d", 2*2*8, len(data))
	}
	gray := libbc.Float32ToHalf(0.25)
	for i := 0; i < 2*2; i++ {
		if halfPixel(t, data, i*4) != gray {
			t.Fatalf("pixel %d should carry the draw result but was 0x%04x", i, halfPixel(t, data, i*4))
		}
	}

	c.Release()
	p.Release()
	if dev.PendingReads() != 0 {
		t.Errorf("%d reads should not stay pending", dev.PendingReads())
	}
	if dev.LiveResources() != 0 {
		t.Errorf("%d resources leaked", dev.LiveResources())
	}
}

func TestIrradianceEmitsSixFaces(t *testing.T) {
	dev := gputest.NewDevice()

	p, err := ibl.NewPipeline(dev)
	if err != nil {
		t.Fatal(err)
	}

	var va libgpu.ViewAlloc
	c, err := p.Capture(&va, panoramaFixture(4, 2), 2)
	if err != nil {
		t.Fatal(err)
	}

	var faces []int
	err = p.Irradiance(&va, c, 2, func(face int, data []byte) error {
		if len(data) != 2*2*8 {
			t.Fatalf("face %d should emit %d bytes but emitted %d", face, 2*2*8, len(data))
		}
		for i := range data {
			if data[i] == gputest.PoisonByte {
				t.Fatalf("face %d was emitted before its readback completed", face)
			}
		}
		faces = append(faces, face)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(faces) != 6 {
		t.Fatalf("should emit 6 faces but emitted %d", len(faces))
	}
	for i, face := range faces {
		if face != i {
			t.Fatalf("faces should emit in order, got %v", faces)
		}
	}

	c.Release()
	p.Release()
	if dev.LiveResources() != 0 {
		t.Errorf("%d resources leaked", dev.LiveResources())
	}
}

func TestPrefilterRoughnessPerMip(t *testing.T) {
	dev := gputest.NewDevice()
	// echo the roughness setting into the red channel so the readback
	// shows what each draw was configured with
	dev.OnProgram = func(vertSrc, fragSrc string) gputest.ShadeFunc {
		if !strings.Contains(fragSrc, "u_settings") {
			return nil
		}
		return func(view *gputest.View, uniforms map[string]mgl32.Vec4, x, y int) [4]float32 {
			s := uniforms["u_settings"]
			return [4]float32{s.X(), s.Y(), 0, 1}
		}
	}

	p, err := ibl.NewPipeline(dev)
	if err != nil {
		t.Fatal(err)
	}

	var va libgpu.ViewAlloc
	c, err := p.Capture(&va, panoramaFixture(4, 2), 4)
	if err != nil {
		t.Fatal(err)
	}

	type pass struct {
		face, mip int
		roughness uint16
	}
	var passes []pass
	err = p.Prefilter(&va, c, 4, func(face, mip, mipSize int, data []byte) error {
		want := 4 >> mip
		if mipSize != want {
			t.Fatalf("face %d mip %d should be %d wide but was %d", face, mip, want, mipSize)
		}
		passes = append(passes, pass{face, mip, halfPixel(t, data, 0)})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(passes) != 6*3 {
		t.Fatalf("should emit %d passes but emitted %d", 6*3, len(passes))
	}
	roughness := []uint16{
		libbc.Float32ToHalf(0),
		libbc.Float32ToHalf(0.25),
		libbc.Float32ToHalf(0.5),
	}
	for i, ps := range passes {
		// face major, mip minor
		if ps.face != i/3 || ps.mip != i%3 {
			t.Fatalf("pass %d should be face %d mip %d but was face %d mip %d", i, i/3, i%3, ps.face, ps.mip)
		}
		if ps.roughness != roughness[ps.mip] {
			t.Errorf("mip %d should draw with roughness 0x%04x but drew with 0x%04x", ps.mip, roughness[ps.mip], ps.roughness)
		}
	}

	c.Release()
	p.Release()
	if dev.LiveResources() != 0 {
		t.Errorf("%d resources leaked", dev.LiveResources())
	}
}
