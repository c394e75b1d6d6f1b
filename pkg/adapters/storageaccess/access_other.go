//go:build !unix

package storageaccess

import "os"

// checkWritable probes the directory by creating and removing a file.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".framereel-access-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
