//go:build linux

package display

import (
	"image/color"
	"os"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Framebuffer ioctls from linux/fb.h.
const (
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

type fbBitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// fbVarScreenInfo mirrors struct fb_var_screeninfo.
type fbVarScreenInfo struct {
	XRes, YRes                 uint32
	XResVirtual, YResVirtual   uint32
	XOffset, YOffset           uint32
	BitsPerPixel               uint32
	Grayscale                  uint32
	Red, Green, Blue, Transp   fbBitfield
	NonStd, Activate           uint32
	Height, Width              uint32
	AccelFlags                 uint32
	PixClock                   uint32
	LeftMargin, RightMargin    uint32
	UpperMargin, LowerMargin   uint32
	HSyncLen, VSyncLen         uint32
	Sync, VMode, Rotate, Space uint32
	Reserved                   [4]uint32
}

// fbFixScreenInfo mirrors struct fb_fix_screeninfo.
type fbFixScreenInfo struct {
	ID                             [16]byte
	SmemStart                      uintptr
	SmemLen, Type, TypeAux, Visual uint32
	XPanStep, YPanStep, YWrapStep  uint16
	LineLength                     uint32
	MmioStart                      uintptr
	MmioLen, Accel                 uint32
	Capabilities                   uint16
	Reserved                       [2]uint16
}

// fbGeometry is the pixel layout a framebuffer device reports.
type fbGeometry struct {
	XRes, YRes   int
	BitsPerPixel int
	LineLength   int // bytes per row, including padding

	Red, Green, Blue fbBitfield
}

// rgb565 is the packed 16 bpp layout of most small SPI panels.
func rgb565(xres, yres int) fbGeometry {
	return fbGeometry{
		XRes:         xres,
		YRes:         yres,
		BitsPerPixel: 16,
		LineLength:   xres * 2,
		Red:          fbBitfield{Offset: 11, Length: 5},
		Green:        fbBitfield{Offset: 5, Length: 6},
		Blue:         fbBitfield{Offset: 0, Length: 5},
	}
}

// xrgb8888 is the 32 bpp layout of HDMI and DRM-emulated framebuffers.
func xrgb8888(xres, yres, lineLength int) fbGeometry {
	return fbGeometry{
		XRes:         xres,
		YRes:         yres,
		BitsPerPixel: 32,
		LineLength:   lineLength,
		Red:          fbBitfield{Offset: 16, Length: 8},
		Green:        fbBitfield{Offset: 8, Length: 8},
		Blue:         fbBitfield{Offset: 0, Length: 8},
	}
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg)); errno != 0 {
		return errno
	}
	return nil
}

// queryGeometry reads the variable and fixed screen info of an open device.
func queryGeometry(f *os.File) (fbGeometry, error) {
	var v fbVarScreenInfo
	if err := ioctl(f.Fd(), fbioGetVScreenInfo, unsafe.Pointer(&v)); err != nil {
		return fbGeometry{}, errors.Wrap(err, "FBIOGET_VSCREENINFO")
	}
	var fix fbFixScreenInfo
	if err := ioctl(f.Fd(), fbioGetFScreenInfo, unsafe.Pointer(&fix)); err != nil {
		return fbGeometry{}, errors.Wrap(err, "FBIOGET_FSCREENINFO")
	}
	return fbGeometry{
		XRes:         int(v.XRes),
		YRes:         int(v.YRes),
		BitsPerPixel: int(v.BitsPerPixel),
		LineLength:   int(fix.LineLength),
		Red:          v.Red,
		Green:        v.Green,
		Blue:         v.Blue,
	}, nil
}

// Framebuffer is a drivers.Displayer writing to a Linux framebuffer device
// in the pixel format and line stride the device reports. Only rows touched
// since the last Display are written.
type Framebuffer struct {
	file      *os.File
	blankPath string
	width     int16
	height    int16
	geom      fbGeometry
	bytesPP   int
	buf       []byte

	dirtyMin int
	dirtyMax int
}

// OpenFramebuffer opens device (e.g. /dev/fb0) as a width x height panel.
// blankPath, if set, is the sysfs file used to blank the panel.
func OpenFramebuffer(device, blankPath string, width, height int16) (*Framebuffer, error) {
	f, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open framebuffer %s", device)
	}
	geom, err := queryGeometry(f)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "query framebuffer %s", device)
	}
	fb, err := newFramebuffer(f, blankPath, width, height, geom)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "framebuffer %s", device)
	}
	return fb, nil
}

// newFramebuffer wraps an already open file laid out as geom.
func newFramebuffer(f *os.File, blankPath string, width, height int16, geom fbGeometry) (*Framebuffer, error) {
	bytesPP := geom.BitsPerPixel / 8
	switch geom.BitsPerPixel {
	case 16, 24, 32:
	default:
		return nil, errors.Errorf("unsupported depth %d bpp", geom.BitsPerPixel)
	}
	if int(width) > geom.XRes || int(height) > geom.YRes {
		return nil, errors.Errorf("panel %dx%d larger than device %dx%d", width, height, geom.XRes, geom.YRes)
	}
	if geom.LineLength < geom.XRes*bytesPP {
		return nil, errors.Errorf("line length %d too short for %d pixels at %d bpp", geom.LineLength, geom.XRes, geom.BitsPerPixel)
	}
	return &Framebuffer{
		file:      f,
		blankPath: blankPath,
		width:     width,
		height:    height,
		geom:      geom,
		bytesPP:   bytesPP,
		buf:       make([]byte, geom.LineLength*int(height)),
		dirtyMin:  -1,
	}, nil
}

// Size returns the panel dimensions.
func (fb *Framebuffer) Size() (x, y int16) {
	return fb.width, fb.height
}

func channel(v uint8, bf fbBitfield) uint32 {
	if bf.Length == 0 {
		return 0
	}
	var c uint32
	if bf.Length >= 8 {
		c = uint32(v) << (bf.Length - 8)
	} else {
		c = uint32(v) >> (8 - bf.Length)
	}
	return c << bf.Offset
}

// pack encodes c in the device's pixel format.
func (fb *Framebuffer) pack(c color.RGBA) uint32 {
	g := fb.geom
	return channel(c.R, g.Red) | channel(c.G, g.Green) | channel(c.B, g.Blue)
}

// SetPixel stores one pixel; writes outside the panel are dropped.
func (fb *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return
	}
	v := fb.pack(c)
	i := int(y)*fb.geom.LineLength + int(x)*fb.bytesPP
	for b := 0; b < fb.bytesPP; b++ {
		fb.buf[i+b] = byte(v >> (8 * b))
	}

	row := int(y)
	if fb.dirtyMin < 0 || row < fb.dirtyMin {
		fb.dirtyMin = row
	}
	if row > fb.dirtyMax {
		fb.dirtyMax = row
	}
}

// Display writes the dirty rows to the device.
func (fb *Framebuffer) Display() error {
	if fb.dirtyMin < 0 {
		return nil
	}
	stride := fb.geom.LineLength
	start := fb.dirtyMin * stride
	end := (fb.dirtyMax + 1) * stride
	fb.dirtyMin, fb.dirtyMax = -1, 0
	if _, err := fb.file.WriteAt(fb.buf[start:end], int64(start)); err != nil {
		return errors.Wrap(err, "write framebuffer")
	}
	return nil
}

// Blank turns the panel off through sysfs.
func (fb *Framebuffer) Blank() error {
	if fb.blankPath == "" {
		return nil
	}
	if err := os.WriteFile(fb.blankPath, []byte("1"), 0o644); err != nil {
		return errors.Wrap(err, "blank framebuffer")
	}
	return nil
}

// Close releases the device.
func (fb *Framebuffer) Close() error {
	return fb.file.Close()
}
