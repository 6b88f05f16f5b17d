package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
)

// Disk represents the serialization implementation for reading and storing
// blocks in their own separate files on disk.
type Disk struct {
	dbPath string
}

// NewDisk constructs a Disk value for use.
func NewDisk(dbPath string) (*Disk, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, err
	}

	return &Disk{dbPath: dbPath}, nil
}

// Write takes the specified block and stores it on disk in a file labeled
// with the block number. An existing file is never overwritten.
func (d *Disk) Write(blockData BlockData) error {

	// Marshal the block for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(blockData, "", "  ")
	if err != nil {
		return err
	}

	// Create a new file for this block and name it based on the block number.
	f, err := os.OpenFile(d.getPath(blockData.Number), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	// Write the new block to disk.
	if _, err := f.Write(data); err != nil {
		return err
	}

	return nil
}

// GetBlock searches the block files on disk to locate and return the
// contents of the specified block by number.
func (d *Disk) GetBlock(num uint64) (BlockData, error) {

	// Open the block file for the specified number.
	f, err := os.OpenFile(d.getPath(num), os.O_RDONLY, 0600)
	if err != nil {
		return BlockData{}, err
	}
	defer f.Close()

	// Decode the contents of the block.
	var blockData BlockData
	if err := json.NewDecoder(f).Decode(&blockData); err != nil {
		return BlockData{}, fmt.Errorf("decoding block %d: %w", num, err)
	}

	if blockData.Number != num {
		return BlockData{}, fmt.Errorf("block file %d holds block number %d", num, blockData.Number)
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with block number 1.
func (d *Disk) ForEach() *Iterator {
	return d.ForEachFrom(0)
}

// ForEachFrom returns an iterator to walk through the blocks that
// follow the specified block number.
func (d *Disk) ForEachFrom(num uint64) *Iterator {
	return &Iterator{disk: d, current: num}
}

// getPath forms the path to the specified block.
func (d *Disk) getPath(blockNum uint64) string {
	name := strconv.FormatUint(blockNum, 10)
	return path.Join(d.dbPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// Iterator represents the iteration implementation for walking
// through and reading blocks on disk.
type Iterator struct {
	disk    *Disk  // Access to the block files.
	current uint64 // Last block number that was read.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from disk. Reaching a missing file marks
// the end of the chain and is not reported as an error.
func (it *Iterator) Next() (BlockData, bool, error) {
	if it.eoc {
		return BlockData{}, false, errors.New("end of chain")
	}

	blockData, err := it.disk.GetBlock(it.current + 1)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			it.eoc = true
			return BlockData{}, false, nil
		}
		return BlockData{}, false, err
	}

	it.current++

	return blockData, true, nil
}

// Done returns the end of chain value.
func (it *Iterator) Done() bool {
	return it.eoc
}

// Current returns the number of the last block that was read.
func (it *Iterator) Current() uint64 {
	return it.current
}
