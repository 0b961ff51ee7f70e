package trek

import (
	"os"

	"github.com/karrick/godirwalk"
	"golang.org/x/sys/unix"
)

// FileType is the externally observable classification of a filesystem entry.
type FileType int

const (
	TypeRegular FileType = iota
	TypeDirectory
	TypeOther
)

var fileTypeStrings = [...]string{
	"regular",
	"directory",
	"other",
}

func (t FileType) String() string {
	if t < TypeRegular || t > TypeOther {
		return "unknown"
	}
	return fileTypeStrings[t]
}

// Metadata describes one filesystem entry. It is captured with lstat
// semantics: a symbolic link to a directory classifies as TypeOther.
type Metadata struct {
	Type FileType
	Dev  uint64
	Ino  uint64
}

// Probe abstracts the two filesystem operations the walker performs, so that
// walks can be pointed at a synthetic filesystem in tests.
type Probe interface {
	// Lstat reports an entry's classification and device/inode numbers
	// without following a terminal symbolic link.
	Lstat(path string) (Metadata, error)

	// ReadDirNames enumerates the names of a directory's immediate
	// children, in no particular order.
	ReadDirNames(path string) ([]string, error)
}

// OSProbe reads the local filesystem. It is the Probe used when Options does
// not supply one.
type OSProbe struct{}

func (OSProbe) Lstat(path string) (Metadata, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Metadata{}, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	meta := Metadata{Dev: uint64(st.Dev), Ino: uint64(st.Ino)} //nolint:unconvert // Dev width differs across unix ports.
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG:
		meta.Type = TypeRegular
	case unix.S_IFDIR:
		meta.Type = TypeDirectory
	default:
		meta.Type = TypeOther
	}
	return meta, nil
}

func (OSProbe) ReadDirNames(path string) ([]string, error) {
	dirents, err := godirwalk.ReadDirents(path, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(dirents))
	for _, dirent := range dirents {
		names = append(names, dirent.Name())
	}
	return names, nil
}
