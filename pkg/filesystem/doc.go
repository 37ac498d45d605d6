// Package filesystem copies tracked files and directories between their
// source locations and a vault repository. Everything goes through an
// afero.Fs so the copy rules can be tested on a memory filesystem.
package filesystem
