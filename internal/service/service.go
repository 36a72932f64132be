package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dossier-status-service/internal/dto"
	"dossier-status-service/internal/enrich"
	"dossier-status-service/internal/listing"
	"dossier-status-service/internal/model"
	"dossier-status-service/internal/stats"
	"dossier-status-service/internal/status"
	"dossier-status-service/internal/workflow"
)

// Interfaz que debe implementar repository
type DossierRepository interface {
	Save(ctx context.Context, d *model.Dossier) error
	FindByID(ctx context.Context, id string) (*model.Dossier, error)
	FindRawByID(ctx context.Context, id string) (map[string]any, error)
	FindAllRaw(ctx context.Context) ([]map[string]any, error)
	FindRawByStatus(ctx context.Context, status string) ([]map[string]any, error)
	UpdateStatus(ctx context.Context, id, status string, record model.StatusRecord) error
	SetDeliverySchedule(ctx context.Context, id string, at time.Time, address, postalCode string) error
	SetDeliveryResult(ctx context.Context, id string, at time.Time, montant, paymentMode string) error
}

// EventPublisher notifica a los demás servicios cada mutación. Un fallo de
// publicación se loguea y no tumba la operación.
type EventPublisher interface {
	Publish(event string, d *model.Dossier)
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrForbidden         = errors.New("rol sin permiso para esta operación")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrFinalState        = errors.New("el dossier ya está clôturé")
	ErrDossierExists     = errors.New("el dossier ya fue dado de alta previamente")
)

type DossierService struct {
	repo DossierRepository
	pub  EventPublisher
	log  *zap.Logger

	// Reloj inyectable: los cálculos relativos a "ahora" no tocan el reloj
	// de pared directamente.
	Now func() time.Time
}

func NewDossierService(r DossierRepository, pub EventPublisher, log *zap.Logger) *DossierService {
	return &DossierService{repo: r, pub: pub, log: log, Now: time.Now}
}

// InitDossier da de alta un dossier nuevo, siempre en estado "nouveau".
// Se invoca desde el consumer de Rabbit (vía principal) o desde la API.
func (s *DossierService) InitDossier(ctx context.Context, in dto.IntakeRequest) (*model.Dossier, error) {
	id := strings.TrimSpace(in.DossierID)
	if id == "" {
		id = uuid.NewString()
	} else {
		existing, err := s.repo.FindByID(ctx, id)
		if err == nil && existing != nil {
			return nil, ErrDossierExists
		}
	}

	numero := strings.TrimSpace(in.Numero)
	if numero == "" {
		short := id
		if len(short) > 8 {
			short = short[:8]
		}
		numero = "DOS-" + strings.ToUpper(short)
	}

	now := s.Now().UTC()
	d := &model.Dossier{
		ID:          id,
		Numero:      numero,
		MachineType: in.MachineType,
		FormData:    in.FormData,
		Status:      string(status.Nouveau),
		ClientName:  in.ClientName,
		Phone:       in.Phone,
		Address:     in.Address,
		PostalCode:  in.PostalCode,
		CreatedAt:   now,
		History: []model.StatusRecord{
			{
				ToStatus:  string(status.Nouveau),
				Actor:     "system",
				Comment:   "Dossier créé",
				Timestamp: now,
			},
		},
	}

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}

	s.publish("dossier.created", d)
	return d, nil
}

// ChangeStatus valida y realiza la transición según la tabla de workflow.
// El destino llega crudo (botón o valor tecleado por el admin) y se
// normaliza aquí.
func (s *DossierService) ChangeStatus(ctx context.Context, id string, role workflow.Role, actor, rawTarget, comment string) error {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	current := status.Normalize(d.Status)
	target := status.Normalize(rawTarget)

	// Mismo estado: no-op
	if target == current {
		return nil
	}
	if status.Terminal(current) && role != workflow.RoleAdmin {
		return ErrFinalState
	}
	if !workflow.Allowed(role, current, target) {
		return ErrInvalidTransition
	}

	if !status.Known(current) {
		// Dato heredado que no casa con el ciclo de vida; no bloquea al
		// admin pero conviene dejar rastro.
		s.log.Warn("estado almacenado fuera del ciclo de vida",
			zap.String("dossier_id", id),
			zap.String("statut", string(current)))
	}

	record := model.StatusRecord{
		FromStatus: string(current),
		ToStatus:   string(target),
		Actor:      actor,
		Role:       string(role),
		Comment:    comment,
		Timestamp:  s.Now().UTC(),
	}

	if err := s.repo.UpdateStatus(ctx, id, string(target), record); err != nil {
		return err
	}

	d.Status = string(target)
	d.History = append(d.History, record)
	s.publish("dossier.updated", d)
	return nil
}

// ScheduleDelivery programa la entrega y pasa el dossier a en_livraison.
func (s *DossierService) ScheduleDelivery(ctx context.Context, id string, role workflow.Role, actor string, req dto.ScheduleDeliveryRequest) error {
	if role != workflow.RoleLivreur && role != workflow.RoleAdmin {
		return ErrForbidden
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	current := status.Normalize(d.Status)
	if !workflow.Allowed(role, current, status.EnLivraison) {
		return ErrInvalidTransition
	}

	if err := s.repo.SetDeliverySchedule(ctx, id, req.ScheduledAt.UTC(), req.Address, req.PostalCode); err != nil {
		return err
	}

	record := model.StatusRecord{
		FromStatus: string(current),
		ToStatus:   string(status.EnLivraison),
		Actor:      actor,
		Role:       string(role),
		Comment:    "Livraison programmée le " + req.ScheduledAt.Format("02/01/2006 15:04"),
		Timestamp:  s.Now().UTC(),
	}
	if err := s.repo.UpdateStatus(ctx, id, string(status.EnLivraison), record); err != nil {
		return err
	}

	d.Status = string(status.EnLivraison)
	d.History = append(d.History, record)
	s.publish("dossier.updated", d)
	return nil
}

// ConfirmDelivery registra la entrega efectiva y pasa el dossier a livre.
func (s *DossierService) ConfirmDelivery(ctx context.Context, id string, role workflow.Role, actor string, req dto.ConfirmDeliveryRequest) error {
	if role != workflow.RoleLivreur && role != workflow.RoleAdmin {
		return ErrForbidden
	}

	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	current := status.Normalize(d.Status)
	if !workflow.Allowed(role, current, status.Livre) {
		return ErrInvalidTransition
	}

	montant := strings.TrimSpace(req.Montant)
	if montant != "" {
		if _, err := decimal.NewFromString(montant); err != nil {
			s.log.Warn("montant encaissé ilegible, se descarta",
				zap.String("dossier_id", id),
				zap.String("montant", montant))
			montant = ""
		}
	}

	deliveredAt := s.Now().UTC()
	if req.DeliveredAt != nil {
		deliveredAt = req.DeliveredAt.UTC()
	}

	if err := s.repo.SetDeliveryResult(ctx, id, deliveredAt, montant, req.PaymentMode); err != nil {
		return err
	}

	record := model.StatusRecord{
		FromStatus: string(current),
		ToStatus:   string(status.Livre),
		Actor:      actor,
		Role:       string(role),
		Comment:    "Livraison confirmée",
		Timestamp:  s.Now().UTC(),
	}
	if err := s.repo.UpdateStatus(ctx, id, string(status.Livre), record); err != nil {
		return err
	}

	d.Status = string(status.Livre)
	d.History = append(d.History, record)
	s.publish("dossier.updated", d)
	return nil
}

// Lecturas enriquecidas

func (s *DossierService) GetEnriched(ctx context.Context, id string, now time.Time) (*enrich.Dossier, error) {
	raw, err := s.repo.FindRawByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := enrich.Enrich(raw, now)
	return &d, nil
}

func (s *DossierService) ListEnriched(ctx context.Context, c listing.Criteria, now time.Time) ([]enrich.Dossier, error) {
	raws, err := s.repo.FindAllRaw(ctx)
	if err != nil {
		return nil, err
	}
	ds := make([]enrich.Dossier, 0, len(raws))
	for _, raw := range raws {
		ds = append(ds, enrich.Enrich(raw, now))
	}
	return listing.FilterSort(ds, c), nil
}

func (s *DossierService) ListByStatus(ctx context.Context, rawStatus string, now time.Time) ([]enrich.Dossier, error) {
	raws, err := s.repo.FindRawByStatus(ctx, string(status.Normalize(rawStatus)))
	if err != nil {
		return nil, err
	}
	ds := make([]enrich.Dossier, 0, len(raws))
	for _, raw := range raws {
		ds = append(ds, enrich.Enrich(raw, now))
	}
	return ds, nil
}

func (s *DossierService) Dashboard(ctx context.Context, now time.Time) (stats.Stats, error) {
	raws, err := s.repo.FindAllRaw(ctx)
	if err != nil {
		return stats.Stats{}, err
	}
	ds := make([]enrich.Dossier, 0, len(raws))
	for _, raw := range raws {
		ds = append(ds, enrich.Enrich(raw, now))
	}
	return stats.Aggregate(ds, now), nil
}

// ActionsFor expone el resolver de workflow para el controller.
func (s *DossierService) ActionsFor(role workflow.Role, rawStatus string) []workflow.Action {
	return workflow.ResolveActions(role, rawStatus)
}

func (s *DossierService) Timeline(ctx context.Context, id string) ([]model.StatusRecord, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.History, nil
}

// LastComment devuelve el comentario de la entrada más reciente del historial
// cuyo destino es el estado pedido (p.ej. el último motivo de revisión).
func (s *DossierService) LastComment(ctx context.Context, id, rawStatus string) (string, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	target := status.Normalize(rawStatus)
	for i := len(d.History) - 1; i >= 0; i-- {
		if status.Normalize(d.History[i].ToStatus) == target {
			return d.History[i].Comment, nil
		}
	}
	return "", nil
}

func (s *DossierService) publish(event string, d *model.Dossier) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(event, d)
}
