package generators

import (
	"fmt"
	"strings"

	"arquitecto/internal/shared/model"
)

// NewDocumentationGenerator 技术文档本地生成器
func NewDocumentationGenerator() Generator {
	return &localGenerator{name: model.ArtifactDocumentation, fn: generateDocumentation}
}

// generateDocumentation 纯文本结构化文档：摘要、目标、架构、mejores
// practicas、seguridad、plan、costos 和 soporte。没有表格也没有图片。
func generateDocumentation(in Input) (model.Artifact, error) {
	d := in.Draft
	var b strings.Builder

	title := strings.ToUpper(SanitizeASCII(d.Name))
	writeDocHeader(&b, "PROPUESTA DE ARQUITECTURA AWS - "+title)

	writeDocSection(&b, "1. RESUMEN EJECUTIVO", []string{
		fmt.Sprintf("Este documento presenta la propuesta de arquitectura para el proyecto %s.", SanitizeASCII(d.Name)),
		fmt.Sprintf("Tipo de proyecto: %s.", projectTypeLabel(d.Type)),
		fmt.Sprintf("Region de despliegue: %s.", d.Region),
		"La solucion se apoya en servicios administrados de AWS para reducir la carga operativa y escalar segun demanda.",
	})

	objectives := []string{
		"Desplegar una infraestructura segura y escalable en AWS.",
		"Aplicar el AWS Well-Architected Framework en sus cinco pilares.",
		"Optimizar costos mediante dimensionamiento correcto de recursos.",
	}
	for _, req := range d.Requirements {
		objectives = append(objectives, "Cumplir el requisito: "+SanitizeASCII(req)+".")
	}
	writeDocSection(&b, "2. OBJETIVOS", objectives)

	arch := []string{
		fmt.Sprintf("Estilo de arquitectura: %s.", string(d.ArchitectureStyle)),
		"Componentes detectados:",
	}
	for _, svc := range d.Services {
		arch = append(arch, "  - "+svc+": "+serviceBlurb(svc))
	}
	if d.InstanceType != "" {
		arch = append(arch, fmt.Sprintf("Instancia de computo: %s.", d.InstanceType))
	}
	if d.OS != "" {
		arch = append(arch, fmt.Sprintf("Sistema operativo: %s.", d.OS))
	}
	if d.StorageGB > 0 {
		arch = append(arch, fmt.Sprintf("Almacenamiento solicitado: %d GB en volumenes EBS gp3 cifrados.", d.StorageGB))
	}
	writeDocSection(&b, "3. ARQUITECTURA PROPUESTA", arch)

	writeDocSection(&b, "4. MEJORES PRACTICAS", []string{
		"Infraestructura como codigo con CloudFormation para despliegues repetibles.",
		"Separacion de ambientes (desarrollo, staging, produccion) por stack.",
		"Etiquetado consistente de recursos para control de costos.",
		"Monitoreo proactivo con CloudWatch y alarmas sobre metricas clave.",
	})

	writeDocSection(&b, "5. SEGURIDAD", []string{
		"Cifrado en reposo habilitado en todos los volumenes y buckets.",
		"Acceso por roles de IAM con privilegio minimo; sin credenciales embebidas.",
		"Grupos de seguridad restrictivos; SSH limitado a la red interna.",
		"Bloqueo de acceso publico en buckets de almacenamiento.",
	})

	writeDocSection(&b, "6. PLAN DE IMPLEMENTACION", []string{
		"Fase 1 - Preparacion: validacion de cuenta, permisos y parametros.",
		"Fase 2 - Infraestructura: despliegue del stack de CloudFormation.",
		"Fase 3 - Configuracion: ajuste de servicios y aplicaciones.",
		"Fase 4 - Pruebas: validacion funcional y de seguridad.",
		"Fase 5 - Monitoreo: alarmas, dashboards y registro centralizado.",
		"Fase 6 - Documentacion: runbooks y transferencia de conocimiento.",
		"Fase 7 - Entrega: puesta en produccion y cierre.",
	})

	writeDocSection(&b, "7. COSTOS ESTIMADOS", []string{
		"El detalle de costos mensuales y anuales se incluye en el archivo de estimacion adjunto (estimacion-costos.csv).",
		"Los montos son referenciales y varian segun region y uso real.",
	})

	writeDocSection(&b, "8. SOPORTE", []string{
		"Se recomienda AWS Business Support para cargas productivas.",
		"El equipo de arquitectura queda disponible para acompanar el despliegue.",
	})

	return model.Artifact{
		LogicalName: model.ArtifactDocumentation,
		FileName:    "documentacion-tecnica.txt",
		MediaType:   "text/plain",
		Bytes:       asciiBytes(b.String()),
		Source:      model.SourceLocal,
	}, nil
}

func writeDocHeader(b *strings.Builder, title string) {
	line := strings.Repeat("=", 72)
	b.WriteString(line + "\n")
	b.WriteString(title + "\n")
	b.WriteString(line + "\n\n")
}

func writeDocSection(b *strings.Builder, heading string, lines []string) {
	b.WriteString(heading + "\n")
	b.WriteString(strings.Repeat("-", len(heading)) + "\n")
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	b.WriteString("\n")
}

func projectTypeLabel(t model.ProjectType) string {
	switch t {
	case model.TypeIntegral:
		return "solucion integral"
	case model.TypeQuickService:
		return "servicio rapido"
	default:
		return "por definir"
	}
}

// serviceBlurb 每个服务在文档里的一句话说明
func serviceBlurb(svc string) string {
	blurbs := map[string]string{
		"EC2":         "computo elastico para la carga principal",
		"S3":          "almacenamiento de objetos durable",
		"RDS":         "base de datos relacional administrada",
		"DynamoDB":    "base de datos NoSQL de baja latencia",
		"Lambda":      "computo serverless por eventos",
		"API Gateway": "exposicion y control de APIs",
		"VPC":         "red privada virtual aislada",
		"CloudFront":  "distribucion de contenido global",
		"Route53":     "DNS administrado de alta disponibilidad",
		"CloudWatch":  "monitoreo, logs y alarmas",
		"ELB":         "balanceo de carga entre instancias",
		"ECS":         "orquestacion de contenedores",
		"EKS":         "Kubernetes administrado",
		"ElastiCache": "cache en memoria administrada",
		"SQS":         "colas de mensajes desacopladas",
		"SNS":         "notificaciones y fan-out de eventos",
		"Glue":        "integracion y catalogo de datos",
		"Athena":      "consultas SQL sobre S3",
		"Redshift":    "almacen de datos analitico",
		"VPN":         "conectividad segura sitio a sitio",
	}
	if s, ok := blurbs[svc]; ok {
		return s
	}
	return "servicio de AWS incluido en la solucion"
}
