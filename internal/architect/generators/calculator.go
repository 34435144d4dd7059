package generators

import (
	"fmt"
	"strings"

	"arquitecto/internal/shared/model"
)

// NewCalculatorGuideGenerator AWS 定价计算器使用指南本地生成器
func NewCalculatorGuideGenerator() Generator {
	return &localGenerator{name: model.ArtifactCalculatorGuide, fn: generateCalculatorGuide}
}

// generateCalculatorGuide 按检测到的服务列表生成计算器的逐步指南
func generateCalculatorGuide(in Input) (model.Artifact, error) {
	d := in.Draft
	var b strings.Builder

	writeDocHeader(&b, "GUIA DE LA CALCULADORA DE PRECIOS DE AWS - "+strings.ToUpper(SanitizeASCII(d.Name)))

	b.WriteString("Esta guia explica como reproducir la estimacion de costos en https://calculator.aws paso a paso.\n\n")

	step := 1
	writeStep(&b, &step, "Abrir https://calculator.aws y pulsar 'Create estimate'.")
	writeStep(&b, &step, fmt.Sprintf("Seleccionar la region %s en el buscador de servicios.", d.Region))

	for _, svc := range d.Services {
		writeStep(&b, &step, calculatorStep(svc, d))
	}

	writeStep(&b, &step, "Revisar el resumen mensual y anual generado por la calculadora.")
	writeStep(&b, &step, "Guardar la estimacion y exportar el enlace para compartirla con el equipo.")

	b.WriteString("\nSUPUESTOS\n---------\n")
	b.WriteString("- Uso continuo 730 horas al mes salvo indicacion contraria.\n")
	b.WriteString("- Precios on-demand sin instancias reservadas ni Savings Plans.\n")
	if d.StorageGB > 0 {
		fmt.Fprintf(&b, "- Almacenamiento EBS gp3 de %d GB cifrado.\n", d.StorageGB)
	}

	b.WriteString("\nNOTAS REGIONALES\n----------------\n")
	fmt.Fprintf(&b, "- La estimacion usa precios de %s; otras regiones pueden variar entre 5%% y 30%%.\n", d.Region)
	b.WriteString("- La transferencia de datos saliente se cobra por GB y no esta incluida en la base.\n")

	return model.Artifact{
		LogicalName: model.ArtifactCalculatorGuide,
		FileName:    "guia-calculadora.txt",
		MediaType:   "text/plain",
		Bytes:       asciiBytes(b.String()),
		Source:      model.SourceLocal,
	}, nil
}

func writeStep(b *strings.Builder, step *int, text string) {
	fmt.Fprintf(b, "%d. %s\n", *step, text)
	*step++
}

// calculatorStep 每个服务在计算器里的配置说明
func calculatorStep(svc string, d model.ProjectDraft) string {
	switch svc {
	case "EC2":
		return fmt.Sprintf("Agregar 'Amazon EC2': 1 instancia %s, %s, 730 horas/mes.",
			instanceTypeOrDefault(d), osLabel(d))
	case "S3":
		return "Agregar 'Amazon S3': clase Standard, estimar GB almacenados y solicitudes mensuales."
	case "RDS":
		return "Agregar 'Amazon RDS': motor y tamano de instancia segun la carga, Multi-AZ si aplica."
	case "VPC":
		return "Agregar 'Amazon VPC': sin costo base; incluir NAT Gateway solo si se requiere salida privada."
	case "CloudWatch":
		return "Agregar 'Amazon CloudWatch': metricas personalizadas, logs ingeridos y alarmas previstas."
	case "Lambda":
		return "Agregar 'AWS Lambda': invocaciones mensuales, duracion media y memoria asignada."
	case "CloudFront":
		return "Agregar 'Amazon CloudFront': GB transferidos y numero de solicitudes por mes."
	default:
		return fmt.Sprintf("Agregar '%s' con los parametros de uso estimados para el proyecto.", svc)
	}
}
