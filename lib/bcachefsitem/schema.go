package bcachefsitem

// field describes one entry of the persistent BCH_INODE_FIELDS schema:
// a name, its declared bit width, and accessors into an Unpacked
// record. Schema order is part of the on-disk contract —
// append only, never reorder, remove, or narrow an existing entry.
type field struct {
	name string
	bits int
	get  func(*Unpacked) uint64
	set  func(*Unpacked, uint64)
}

// schema is the persistent, ordered BCH_INODE_FIELDS table. Appending a
// new zero-valued field here is forward compatible; anything else
// breaks on-disk compatibility.
var schema = []field{
	{"i_size", 64,
		func(u *Unpacked) uint64 { return u.ISize },
		func(u *Unpacked, v uint64) { u.ISize = v }},
	{"i_sectors", 64,
		func(u *Unpacked) uint64 { return u.ISectors },
		func(u *Unpacked, v uint64) { u.ISectors = v }},
	{"i_uid", 32,
		func(u *Unpacked) uint64 { return uint64(u.IUid) },
		func(u *Unpacked, v uint64) { u.IUid = uint32(v) }},
	{"i_gid", 32,
		func(u *Unpacked) uint64 { return uint64(u.IGid) },
		func(u *Unpacked, v uint64) { u.IGid = uint32(v) }},
	{"i_nlink", 32,
		func(u *Unpacked) uint64 { return uint64(u.INlink) },
		func(u *Unpacked, v uint64) { u.INlink = uint32(v) }},
	{"i_generation", 32,
		func(u *Unpacked) uint64 { return uint64(u.IGeneration) },
		func(u *Unpacked, v uint64) { u.IGeneration = uint32(v) }},
	{"i_dev", 32,
		func(u *Unpacked) uint64 { return uint64(u.IDev) },
		func(u *Unpacked, v uint64) { u.IDev = uint32(v) }},
	{"i_atime", 64,
		func(u *Unpacked) uint64 { return u.IAtime },
		func(u *Unpacked, v uint64) { u.IAtime = v }},
	{"i_mtime", 64,
		func(u *Unpacked) uint64 { return u.IMtime },
		func(u *Unpacked, v uint64) { u.IMtime = v }},
	{"i_ctime", 64,
		func(u *Unpacked) uint64 { return u.ICtime },
		func(u *Unpacked, v uint64) { u.ICtime = v }},
	{"i_otime", 64,
		func(u *Unpacked) uint64 { return u.IOtime },
		func(u *Unpacked, v uint64) { u.IOtime = v }},
}

// FieldIndex returns the schema index of name, or -1 if name is not a
// schema field. Exposed for tests that want to assert NR_FIELDS against
// "this field's index + 1".
func FieldIndex(name string) int {
	for i, f := range schema {
		if f.name == name {
			return i
		}
	}
	return -1
}
