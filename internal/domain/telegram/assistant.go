package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"family-hub-go/internal/domain/dashboard"
	"family-hub-go/internal/domain/family"
	"family-hub-go/internal/domain/healthcare"
	"family-hub-go/internal/domain/maintenance"
)

const maxToolRounds = 5

const systemPrompt = `Você é um assistente do sistema de Gestão Familiar, acessível pelo Telegram.
O usuário pode pedir informações sobre a família dele: equipamentos, consultas médicas, medicações, membros, resumo do dashboard, etc.
Use as ferramentas disponíveis para buscar dados reais e responda em português, de forma clara e objetiva.
Se não tiver ferramenta para o pedido, diga que no momento só pode ajudar com: resumo do dashboard, lista de equipamentos, membros da família, próximas consultas, medicações em uso e ordens de manutenção.
Seja breve nas respostas para caber bem no Telegram.`

// chatCompleter is the slice of the OpenAI client the assistant needs.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Assistant answers free-text questions about the family's data by letting
// the configured LLM call read-only tools over the domain services.
type Assistant struct {
	healthcare  *healthcare.Service
	maintenance *maintenance.Service
	dashboard   *dashboard.Service

	newClient func(config *AIConfig) (chatCompleter, string, error)
}

func NewAssistant(healthcareSvc *healthcare.Service, maintenanceSvc *maintenance.Service, dashboardSvc *dashboard.Service) *Assistant {
	return &Assistant{
		healthcare:  healthcareSvc,
		maintenance: maintenanceSvc,
		dashboard:   dashboardSvc,
		newClient:   newOpenAIClient,
	}
}

func newOpenAIClient(config *AIConfig) (chatCompleter, string, error) {
	switch config.Provider {
	case ProviderAzure:
		if config.AzureEndpoint == nil || config.AzureAPIKey == nil {
			return nil, "", fmt.Errorf("azure ai config incomplete")
		}
		clientConfig := openai.DefaultAzureConfig(*config.AzureAPIKey, strings.TrimRight(*config.AzureEndpoint, "/"))
		model := config.OpenAIModel
		if config.AzureDeployment != nil && *config.AzureDeployment != "" {
			deployment := *config.AzureDeployment
			clientConfig.AzureModelMapperFunc = func(string) string { return deployment }
			model = deployment
		}
		return openai.NewClientWithConfig(clientConfig), model, nil
	case ProviderOpenAI:
		if config.OpenAIAPIKey == nil {
			return nil, "", fmt.Errorf("openai api key missing")
		}
		model := config.OpenAIModel
		if model == "" {
			model = defaultOpenAIModel
		}
		return openai.NewClient(*config.OpenAIAPIKey), model, nil
	default:
		return nil, "", fmt.Errorf("ai provider %q not supported", config.Provider)
	}
}

// Answer runs the tool-calling loop for one user message scoped to a family.
func (a *Assistant) Answer(ctx context.Context, scope family.Scope, config *AIConfig, message string) (string, error) {
	client, model, err := a.newClient(config)
	if err != nil {
		return "", err
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: message},
	}

	for round := 0; round < maxToolRounds; round++ {
		response, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    model,
			Messages: messages,
			Tools:    assistantTools(),
		})
		if err != nil {
			return "", fmt.Errorf("chat completion: %w", err)
		}
		if len(response.Choices) == 0 {
			return "", fmt.Errorf("chat completion returned no choices")
		}

		choice := response.Choices[0]
		if len(choice.Message.ToolCalls) == 0 {
			text := strings.TrimSpace(choice.Message.Content)
			if text == "" {
				return fallbackResponse, nil
			}
			return text, nil
		}

		messages = append(messages, choice.Message)
		for _, call := range choice.Message.ToolCalls {
			result := a.executeTool(ctx, scope, call.Function.Name, call.Function.Arguments)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	return "Limite de etapas atingido. Tente um pedido mais simples.", nil
}

func assistantTools() []openai.Tool {
	stringParam := func(description string) jsonschema.Definition {
		return jsonschema.Definition{Type: jsonschema.String, Description: description}
	}
	return []openai.Tool{
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "get_dashboard_stats",
				Description: "Retorna resumo do dashboard: total de membros, consultas futuras, equipamentos, medicações ativas, ordens de manutenção.",
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "list_equipment",
				Description: "Lista equipamentos da família. Pode filtrar por tipo (eletronico, eletrodomestico, movel, veiculo, outro) ou status (OPERACIONAL, EM_MANUTENCAO, FORA_DE_USO, RESERVA).",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"type_filter":   stringParam("Filtrar por tipo do equipamento"),
						"status_filter": stringParam("Filtrar por status"),
					},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "list_family_members",
				Description: "Lista os membros da família com nome e data de nascimento (útil para aniversários).",
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "list_upcoming_appointments",
				Description: "Lista as próximas consultas médicas da família (data, membro, médico, especialidade).",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"limit": {Type: jsonschema.Integer, Description: "Máximo de consultas a retornar"},
					},
				},
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "list_active_medications",
				Description: "Lista medicações em uso pelos membros da família (nome do membro, medicamento, dosagem).",
			},
		},
		{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        "list_maintenance_orders",
				Description: "Lista ordens de manutenção (equipamento, status, descrição).",
				Parameters: jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"status_filter": stringParam("Filtrar por status da ordem"),
					},
				},
			},
		},
	}
}

type toolArguments struct {
	TypeFilter   string `json:"type_filter"`
	StatusFilter string `json:"status_filter"`
	Limit        int    `json:"limit"`
}

func (a *Assistant) executeTool(ctx context.Context, scope family.Scope, name, rawArguments string) string {
	var args toolArguments
	if rawArguments != "" {
		// Malformed arguments fall back to the zero value.
		_ = json.Unmarshal([]byte(rawArguments), &args)
	}

	result, err := a.runTool(ctx, scope, name, args)
	if err != nil {
		return toolJSON(map[string]string{"error": err.Error()})
	}
	return result
}

func (a *Assistant) runTool(ctx context.Context, scope family.Scope, name string, args toolArguments) (string, error) {
	switch name {
	case "get_dashboard_stats":
		summary, err := a.dashboard.Summarize(ctx, scope)
		if err != nil {
			return "", err
		}
		return toolJSON(summary), nil

	case "list_equipment":
		items, err := a.maintenance.ListEquipment(ctx, scope, args.TypeFilter)
		if err != nil {
			return "", err
		}
		type equipmentRow struct {
			Name   string  `json:"name"`
			Type   *string `json:"type"`
			Status string  `json:"status"`
			Brand  *string `json:"brand"`
			Model  *string `json:"model"`
		}
		rows := make([]equipmentRow, 0, len(items))
		for _, item := range items {
			if args.StatusFilter != "" && item.Status != strings.ToUpper(args.StatusFilter) {
				continue
			}
			rows = append(rows, equipmentRow{
				Name:   item.Name,
				Type:   item.Type,
				Status: item.Status,
				Brand:  item.Brand,
				Model:  item.Model,
			})
		}
		return toolJSON(rows), nil

	case "list_family_members":
		members, err := a.healthcare.ListMembers(ctx, scope)
		if err != nil {
			return "", err
		}
		type memberRow struct {
			Name         string  `json:"name"`
			BirthDate    string  `json:"birth_date"`
			Relationship *string `json:"relationship_type"`
		}
		rows := make([]memberRow, 0, len(members))
		for _, member := range members {
			rows = append(rows, memberRow{
				Name:         member.Name,
				BirthDate:    member.BirthDate.Format("2006-01-02"),
				Relationship: member.Relationship,
			})
		}
		return toolJSON(rows), nil

	case "list_upcoming_appointments":
		appointments, err := a.healthcare.ListAppointments(ctx, scope, "")
		if err != nil {
			return "", err
		}
		memberNames, err := a.memberNames(ctx, scope)
		if err != nil {
			return "", err
		}

		now := time.Now().UTC()
		upcoming := appointments[:0]
		for _, appointment := range appointments {
			if !appointment.AppointmentDate.Before(now) {
				upcoming = append(upcoming, appointment)
			}
		}
		sort.Slice(upcoming, func(i, j int) bool {
			return upcoming[i].AppointmentDate.Before(upcoming[j].AppointmentDate)
		})
		limit := args.Limit
		if limit <= 0 {
			limit = 10
		}
		if len(upcoming) > limit {
			upcoming = upcoming[:limit]
		}

		type appointmentRow struct {
			Member    string `json:"member"`
			Date      string `json:"date"`
			Doctor    string `json:"doctor"`
			Specialty string `json:"specialty"`
		}
		rows := make([]appointmentRow, 0, len(upcoming))
		for _, appointment := range upcoming {
			rows = append(rows, appointmentRow{
				Member:    memberNames[appointment.FamilyMemberID],
				Date:      appointment.AppointmentDate.Format(time.RFC3339),
				Doctor:    appointment.DoctorName,
				Specialty: appointment.Specialty,
			})
		}
		return toolJSON(rows), nil

	case "list_active_medications":
		medications, err := a.healthcare.ListMedications(ctx, scope, "", true)
		if err != nil {
			return "", err
		}
		memberNames, err := a.memberNames(ctx, scope)
		if err != nil {
			return "", err
		}
		type medicationRow struct {
			Member     string `json:"member"`
			Medication string `json:"medication"`
			Dosage     string `json:"dosage"`
		}
		rows := make([]medicationRow, 0, len(medications))
		for _, medication := range medications {
			rows = append(rows, medicationRow{
				Member:     memberNames[medication.FamilyMemberID],
				Medication: medication.Name,
				Dosage:     medication.Dosage,
			})
		}
		return toolJSON(rows), nil

	case "list_maintenance_orders":
		orders, err := a.maintenance.ListOrders(ctx, scope, "", args.StatusFilter)
		if err != nil {
			return "", err
		}
		equipment, err := a.maintenance.ListEquipment(ctx, scope, "")
		if err != nil {
			return "", err
		}
		equipmentNames := make(map[string]string, len(equipment))
		for _, item := range equipment {
			equipmentNames[item.ID] = item.Name
		}
		type orderRow struct {
			Equipment   string `json:"equipment"`
			Status      string `json:"status"`
			Description string `json:"description"`
		}
		rows := make([]orderRow, 0, len(orders))
		for _, order := range orders {
			rows = append(rows, orderRow{
				Equipment:   equipmentNames[order.EquipmentID],
				Status:      order.Status,
				Description: order.Description,
			})
		}
		return toolJSON(rows), nil
	}

	return "", fmt.Errorf("ferramenta desconhecida: %s", name)
}

func (a *Assistant) memberNames(ctx context.Context, scope family.Scope) (map[string]string, error) {
	members, err := a.healthcare.ListMembers(ctx, scope)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(members))
	for _, member := range members {
		names[member.ID] = member.Name
	}
	return names, nil
}

func toolJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `{"error":"marshal failed"}`
	}
	return string(data)
}
