// Package gci builds and parses memory card files holding a packed replay.
//
// A file is a 0x40 byte directory entry followed by whole 0x2000 byte
// blocks of file data. The file data starts with a CRC-CCITT checksum of
// the rest of the data, a short replay summary, a placeholder banner and
// icon, two 32 byte comments, the uncompressed replay size and the
// run-length compressed replay. Every multi-byte field is big-endian.
package gci
