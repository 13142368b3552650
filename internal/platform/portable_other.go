//go:build !darwin

package platform

func hostExtras() portableExtras {
	return portableExtras{}
}
