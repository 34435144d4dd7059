package generators

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"arquitecto/internal/shared/model"
)

// activityRow 活动计划的一行
type activityRow struct {
	fase         string
	actividad    string
	responsable  string
	duracion     int
	dependencias string
}

// NewActivitiesGenerator 活动计划（CSV）本地生成器
func NewActivitiesGenerator() Generator {
	return &localGenerator{name: model.ArtifactActivities, fn: generateActivities}
}

// generateActivities 七个阶段的活动计划，行数和顺序确定
func generateActivities(in Input) (model.Artifact, error) {
	rows := []activityRow{
		{"Preparacion", "Validar cuenta AWS, limites de servicio y permisos de IAM", "Arquitecto Cloud", 4, ""},
		{"Preparacion", "Definir convencion de nombres y etiquetado de recursos", "Arquitecto Cloud", 2, ""},
		{"Infraestructura", "Desplegar stack de CloudFormation en ambiente de desarrollo", "Ingeniero DevOps", 6, "Preparacion"},
		{"Infraestructura", "Validar conectividad de red y reglas de seguridad", "Ingeniero DevOps", 4, "Infraestructura"},
	}

	if in.Draft.HasService("EC2") {
		rows = append(rows,
			activityRow{"Configuracion", fmt.Sprintf("Configurar instancia %s con %s", instanceTypeOrDefault(in.Draft), osLabel(in.Draft)), "Ingeniero de Sistemas", 6, "Infraestructura"},
		)
	}
	for _, svc := range in.Draft.TopServices(4) {
		if svc == "EC2" || svc == "VPC" {
			continue
		}
		rows = append(rows,
			activityRow{"Configuracion", "Configurar y validar servicio " + svc, "Ingeniero DevOps", 3, "Infraestructura"},
		)
	}

	rows = append(rows,
		activityRow{"Pruebas", "Ejecutar pruebas funcionales de la solucion", "QA", 8, "Configuracion"},
		activityRow{"Pruebas", "Ejecutar revision de seguridad y acceso", "Seguridad", 4, "Configuracion"},
		activityRow{"Monitoreo", "Configurar alarmas y dashboards en CloudWatch", "Ingeniero DevOps", 4, "Pruebas"},
		activityRow{"Documentacion", "Elaborar runbooks y documentacion operativa", "Arquitecto Cloud", 6, "Pruebas"},
		activityRow{"Entrega", "Despliegue a produccion y transferencia de conocimiento", "Arquitecto Cloud", 4, "Documentacion"},
	)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Fase", "Actividad", "Responsable", "Duracion_Horas", "Dependencias", "Estado"})
	for _, r := range rows {
		_ = w.Write([]string{
			r.fase,
			r.actividad,
			r.responsable,
			fmt.Sprintf("%d", r.duracion),
			r.dependencias,
			"Pendiente",
		})
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return model.Artifact{}, fmt.Errorf("%w: activities csv: %v", ErrGeneration, err)
	}

	return model.Artifact{
		LogicalName: model.ArtifactActivities,
		FileName:    "plan-actividades.csv",
		MediaType:   "text/csv",
		Bytes:       asciiBytes(buf.String()),
		Source:      model.SourceLocal,
	}, nil
}
