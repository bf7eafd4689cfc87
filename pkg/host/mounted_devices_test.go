package host

import (
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
)

func utf16le(s string) []byte {
	var out []byte
	for _, r := range utf16.Encode([]rune(s)) {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func TestParseMountedDevice(t *testing.T) {
	tests := []struct {
		name string
		key  string
		data []byte
		want mountedDevice
		ok   bool
	}{
		{
			name: "daplink volume",
			key:  `\DosDevices\E:`,
			data: utf16le(`_??_USBSTOR#Disk&Ven_MBED&Prod_VFS&Rev_0.1#0240000032044e4500257009997b00386781000097969900&0#{53f56307-b6bf-11d0-94f2-00a0c91efb8b}`),
			want: mountedDevice{TargetID: "0240000032044e4500257009997b00386781000097969900", Drive: "E:"},
			ok:   true,
		},
		{
			name: "segger volume",
			key:  `\DosDevices\F:`,
			data: utf16le(`_??_USBSTOR#Disk&Ven_SEGGER&Prod_MSD_Volume&Rev_1.00#000440112138&0#{53f56307}`),
			want: mountedDevice{TargetID: "000440112138", Drive: "F:"},
			ok:   true,
		},
		{
			name: "other vendor",
			key:  `\DosDevices\G:`,
			data: utf16le(`_??_USBSTOR#Disk&Ven_SanDisk&Prod_Cruzer#4C530001231120115142&0#{53f56307}`),
		},
		{
			name: "volume guid entry",
			key:  `\??\Volume{d1b5c3c4-0000-0000-0000-100000000000}`,
			data: utf16le(`_??_USBSTOR#Disk&Ven_MBED&Prod_VFS&Rev_0.1#0240000032044e45&0#{x}`),
		},
		{
			name: "fixed disk signature",
			key:  `\DosDevices\C:`,
			data: []byte{0x8d, 0x2f, 0x5a, 0x1c, 0x00, 0x00, 0x10, 0x00},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseMountedDevice(tt.key, tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
