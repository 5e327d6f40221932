// Package bcachefsprim holds the small primitive types shared by the
// inode codec (bcachefsitem) and the inode lifecycle (bcachefsfs):
// inode numbers, B-tree keys, and the blockdev UUID type.
package bcachefsprim

import "fmt"

// Inum is an inode number: the B-tree key for the inodes tree, and the
// identifier a filesystem object is known by everywhere else.
type Inum uint64

// BlockdevInodeMax is the first inode number available for filesystem
// inodes; everything below it is reserved for blockdev inodes.
const BlockdevInodeMax Inum = 4096

func (n Inum) String() string {
	return fmt.Sprintf("%d", uint64(n))
}
