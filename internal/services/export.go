package services

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/invkeeper/internal/common"
	"github.com/dmitrijs2005/invkeeper/internal/container"
	"github.com/dmitrijs2005/invkeeper/internal/credentials"
	"github.com/dmitrijs2005/invkeeper/internal/filex"
	"github.com/dmitrijs2005/invkeeper/internal/workbook"
)

// ExportService turns a native container into a workbook Excel can open
// with a password, for handing an inventory to someone outside the system.
type ExportService interface {
	Export(ctx context.Context, containerPath, dest, password string) error
}

type exportService struct {
	store credentials.Store
	codec *container.Codec
}

func NewExportService(store credentials.Store, codec *container.Codec) ExportService {
	return &exportService{store: store, codec: codec}
}

// Export decrypts containerPath with the system password and writes it to
// dest as an encrypted workbook under password. An empty password exports
// under the system password.
func (s *exportService) Export(ctx context.Context, containerPath, dest, password string) error {
	raw, err := os.ReadFile(containerPath)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrIO, err)
	}

	system, err := s.store.SystemPassword(ctx)
	if err != nil {
		return err
	}
	payload, err := s.codec.Decrypt(raw, system)
	if err != nil {
		return fmt.Errorf("open %s: %w", containerPath, err)
	}
	defer common.WipeByteArray(payload)

	if password == "" {
		password = system
	}
	out, err := workbook.EncryptOOXML(payload, password)
	if err != nil {
		return fmt.Errorf("encrypt workbook: %w", err)
	}

	return filex.Replace(dest, out)
}
