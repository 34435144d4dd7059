package generators

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"arquitecto/internal/shared/model"
)

// hoursPerMonth 定价换算用的月小时数
const hoursPerMonth = 730.0

// instanceHourlyRates 实例类型每小时按需价格（us-east-1 参考价）
var instanceHourlyRates = map[string]float64{
	"t3.micro":   0.0104,
	"t3.small":   0.0208,
	"t3.medium":  0.0416,
	"t3.large":   0.0832,
	"t3.xlarge":  0.1664,
	"m5.large":   0.096,
	"m5.xlarge":  0.192,
	"m5.2xlarge": 0.384,
	"c5.large":   0.085,
	"c5.xlarge":  0.17,
	"r5.large":   0.126,
	"r5.xlarge":  0.252,
}

const defaultInstanceHourly = 0.0416 // t3.medium

// serviceMonthlyRates 非实例服务的月度基准价
var serviceMonthlyRates = map[string]float64{
	"S3":          5.50,
	"RDS":         58.40,
	"DynamoDB":    12.50,
	"Lambda":      8.00,
	"API Gateway": 10.50,
	"VPC":         0.00,
	"CloudFront":  15.00,
	"Route53":     1.00,
	"CloudWatch":  6.50,
	"ELB":         18.25,
	"ECS":         0.00,
	"EKS":         73.00,
	"ElastiCache": 24.82,
	"SQS":         2.00,
	"SNS":         1.50,
	"Glue":        21.00,
	"Athena":      7.50,
	"Redshift":    180.00,
	"VPN":         36.50,
}

const storageRatePerGB = 0.08 // EBS gp3 por GB-mes

// NewPricingGenerator 成本估算（CSV）本地生成器
func NewPricingGenerator() Generator {
	return &localGenerator{name: model.ArtifactPricing, fn: generatePricing}
}

// generatePricing 按固定费率表生成逐服务的月度/年度成本明细，
// 输入相同则输出字节完全相同
func generatePricing(in Input) (model.Artifact, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"Servicio", "Detalle", "Costo_Mensual_USD", "Costo_Anual_USD"})

	var totalMonthly float64
	for _, svc := range in.Draft.Services {
		detail, monthly := serviceCost(svc, in.Draft)
		totalMonthly += monthly
		_ = w.Write([]string{svc, detail, money(monthly), money(monthly * 12)})
	}

	if in.Draft.StorageGB > 0 {
		monthly := float64(in.Draft.StorageGB) * storageRatePerGB
		totalMonthly += monthly
		_ = w.Write([]string{
			"EBS",
			fmt.Sprintf("%d GB gp3 cifrado", in.Draft.StorageGB),
			money(monthly), money(monthly * 12),
		})
	}

	_ = w.Write([]string{"TOTAL", "", money(totalMonthly), money(totalMonthly * 12)})
	_ = w.Write([]string{})
	_ = w.Write([]string{"Recomendaciones de optimizacion", "", "", ""})
	_ = w.Write([]string{"1", "Evaluar Savings Plans o instancias reservadas para cargas estables (ahorro hasta 40%)", "", ""})
	_ = w.Write([]string{"2", "Configurar politicas de ciclo de vida en S3 para mover datos frios a clases mas economicas", "", ""})
	_ = w.Write([]string{"3", "Apagar ambientes de desarrollo fuera de horario laboral", "", ""})
	_ = w.Write([]string{})
	_ = w.Write([]string{"Aviso", fmt.Sprintf("Precios referenciales de la region %s; los montos reales varian segun uso y region", in.Draft.Region), "", ""})
	w.Flush()

	if err := w.Error(); err != nil {
		return model.Artifact{}, fmt.Errorf("%w: pricing csv: %v", ErrGeneration, err)
	}

	return model.Artifact{
		LogicalName: model.ArtifactPricing,
		FileName:    "estimacion-costos.csv",
		MediaType:   "text/csv",
		Bytes:       asciiBytes(buf.String()),
		Source:      model.SourceLocal,
	}, nil
}

// serviceCost 单个服务的明细说明与月度成本
func serviceCost(svc string, d model.ProjectDraft) (string, float64) {
	if svc == "EC2" {
		it := instanceTypeOrDefault(d)
		hourly, ok := instanceHourlyRates[it]
		if !ok {
			hourly = defaultInstanceHourly
		}
		return fmt.Sprintf("1 x %s on-demand (%s)", it, osLabel(d)), hourly * hoursPerMonth
	}
	return "uso base estimado", serviceMonthlyRates[svc]
}

func osLabel(d model.ProjectDraft) string {
	if d.OS != "" {
		return d.OS
	}
	return "Linux"
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// EstimateMonthlyCost 项目月度成本估算，写入项目记录的 estimated_cost 字段
func EstimateMonthlyCost(d model.ProjectDraft) float64 {
	var total float64
	for _, svc := range d.Services {
		_, monthly := serviceCost(svc, d)
		total += monthly
	}
	if d.StorageGB > 0 {
		total += float64(d.StorageGB) * storageRatePerGB
	}
	return total
}
