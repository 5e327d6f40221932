package bcachefsprim

import "time"

// TimePrecision is the number of filesystem time units per second. The
// original source stores timestamps with a nanosecond-scale fixed
// precision rather than raw nanoseconds since the epoch; the exact
// scale is a per-superblock field, but a fixed constant is enough for
// everything the inode subsystem itself does with a timestamp (it
// treats i_atime/i_mtime/i_ctime/i_otime as opaque u64 schema fields).
const TimePrecision = 1_000_000_000

// FSEpoch returns t expressed in filesystem time units since the
// filesystem's own epoch, which this package takes to be the Unix
// epoch (the superblock's actual epoch offset is a collaborator
// concern outside this subsystem).
func FSEpoch(t time.Time) uint64 {
	sec := t.Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec)*TimePrecision + uint64(t.Nanosecond())
}
