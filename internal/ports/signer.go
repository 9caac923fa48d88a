package ports

// SignerPort produces armored detached signatures for package artifacts.
type SignerPort interface {
	SignDetached(data []byte) ([]byte, error)
}
