package gitstore_test

import "os"

func removeAll(path string) error {
	return os.RemoveAll(path)
}
