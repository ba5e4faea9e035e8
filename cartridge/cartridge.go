package cartridge

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrInvalidHeader is returned when the file does not begin with a
	// well-formed iNES header.
	ErrInvalidHeader = errors.New("cartridge: invalid iNES header")
	// ErrTruncatedData is returned when the file ends before the PRG or
	// CHR blocks promised by the header have been fully read.
	ErrTruncatedData = errors.New("cartridge: truncated ROM data")
	// ErrUnsupportedMapper is returned by mapper construction, not by
	// this package, but declared here so loaders can wrap it uniformly.
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")
)

// Cartridge is the decoded contents of an iNES ROM image: a header plus
// the raw PRG and CHR byte slices a Mapper re-banks at runtime.
type Cartridge struct {
	MapperID  uint8
	Mirroring Mirroring
	Battery   bool

	PRG []byte
	CHR []byte // empty means the board supplies CHR-RAM
}

// Load reads and decodes an iNES ROM image from disk.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cartridge: opening %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("cartridge: loading %q: %w", path, err)
	}
	return c, nil
}

// LoadReader decodes an iNES ROM image from an arbitrary reader, which
// makes the format testable without touching the filesystem.
func LoadReader(r io.Reader) (*Cartridge, error) {
	hb := make([]byte, headerSize)
	if _, err := io.ReadFull(r, hb); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrInvalidHeader, err)
	}
	h, err := parseHeader(hb)
	if err != nil {
		return nil, err
	}

	if h.hasTrainer() {
		if _, err := io.CopyN(io.Discard, r, trainerSize); err != nil {
			return nil, fmt.Errorf("%w: trainer: %v", ErrTruncatedData, err)
		}
	}

	prg := make([]byte, int(h.prgBlocks)*prgBlockSize)
	if _, err := io.ReadFull(r, prg); err != nil {
		return nil, fmt.Errorf("%w: PRG (wanted %d bytes): %v", ErrTruncatedData, len(prg), err)
	}

	chr := make([]byte, int(h.chrBlocks)*chrBlockSize)
	if _, err := io.ReadFull(r, chr); err != nil {
		return nil, fmt.Errorf("%w: CHR (wanted %d bytes): %v", ErrTruncatedData, len(chr), err)
	}

	// PlayChoice hint-screen/INST-ROM data, if present, is out of scope
	// for this emulator core and is intentionally not retained.

	return &Cartridge{
		MapperID:  h.mapperID(),
		Mirroring: h.mirroring(),
		Battery:   h.hasBattery(),
		PRG:       prg,
		CHR:       chr,
	}, nil
}

func (c *Cartridge) String() string {
	return fmt.Sprintf("mapper=%d mirroring=%s battery=%v prg=%dKiB chr=%dKiB",
		c.MapperID, c.Mirroring, c.Battery, len(c.PRG)/1024, len(c.CHR)/1024)
}
