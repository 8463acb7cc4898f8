package catalog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/domain"
	"github.com/cartorio-digital/siged/internal/ports"
)

func price(v float64) *float64 { return &v }

// Seed installs the fixed service catalog. Safe to run on every boot:
// entries are upserted by id.
func Seed(ctx context.Context, repo ports.ServiceRepository, log *zap.Logger) error {
	services := []domain.Service{
		{
			ID:           "busca-certidao",
			Name:         "Busca de Certidão",
			Description:  "Localização e emissão de certidão de matrícula do imóvel.",
			Price:        price(49.90),
			DurationDays: 3,
			Features:     domain.StringList{"Certidão atualizada", "Envio digital", "Validade jurídica"},
		},
		{
			ID:           "protocolo-registro",
			Name:         "Protocolo de Registro",
			Description:  "Protocolo de títulos junto ao cartório de registro de imóveis.",
			Price:        nil, // quote-based: emolumentos vary per title
			DurationDays: 15,
			Features:     domain.StringList{"Análise prévia do título", "Acompanhamento do protocolo", "Exigências assistidas"},
		},
		{
			ID:           "elaboracao-documentos",
			Name:         "Elaboração de Documentos",
			Description:  "Minutas de escrituras, contratos e requerimentos registrais.",
			Price:        nil, // quote-based: depends on document complexity
			DurationDays: 10,
			Features:     domain.StringList{"Revisão por analista", "Adequação registral", "Duas rodadas de ajustes"},
		},
		{
			ID:           "certidao-onus",
			Name:         "Certidão de Ônus Reais",
			Description:  "Certidão negativa ou positiva de ônus e ações reipersecutórias.",
			Price:        price(79.90),
			DurationDays: 5,
			Features:     domain.StringList{"Cobertura estadual", "Envio digital"},
		},
	}

	for i := range services {
		services[i].CreatedAt = time.Now()
		if err := repo.Save(ctx, &services[i]); err != nil {
			return err
		}
	}

	log.Info("service catalog seeded", zap.Int("services", len(services)))
	return nil
}
