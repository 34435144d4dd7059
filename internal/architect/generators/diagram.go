package generators

import (
	"fmt"
	"strings"

	"arquitecto/internal/shared/model"
)

// 画布与布局常量，布局完全确定，不引入随机性
const (
	svgWidth     = 1000
	svgTitleH    = 60
	svgVPCX      = 40
	svgVPCY      = 90
	svgVPCW      = 920
	svgAZPad     = 20
	svgSubnetPad = 20
	svgIconW     = 120
	svgIconH     = 80
	svgIconGap   = 24
	svgMaxIcons  = 6
)

// serviceColors 每个服务图标的填充色，未知服务用默认色
var serviceColors = map[string]string{
	"EC2":         "#ED7100",
	"S3":          "#7AA116",
	"RDS":         "#C925D1",
	"DynamoDB":    "#C925D1",
	"Lambda":      "#ED7100",
	"API Gateway": "#E7157B",
	"VPC":         "#8C4FFF",
	"CloudFront":  "#8C4FFF",
	"Route53":     "#8C4FFF",
	"CloudWatch":  "#E7157B",
	"ELB":         "#8C4FFF",
	"ECS":         "#ED7100",
	"EKS":         "#ED7100",
	"ElastiCache": "#C925D1",
	"SQS":         "#E7157B",
	"SNS":         "#E7157B",
}

const defaultIconColor = "#232F3E"

// NewDiagramGenerator 架构图（SVG）本地生成器
func NewDiagramGenerator() Generator {
	return &localGenerator{name: model.ArtifactDiagram, fn: generateDiagram}
}

// generateDiagram 生成确定性布局的架构图：标题带、VPC 容器、AZ 容器、
// 一个子网、每个主要服务一个图标，以及检测到的实例注解
func generateDiagram(in Input) (model.Artifact, error) {
	services := in.Draft.TopServices(svgMaxIcons)
	if len(services) == 0 {
		services = []string{"EC2", "VPC", "S3"}
	}

	iconRowW := len(services)*svgIconW + (len(services)-1)*svgIconGap
	subnetW := iconRowW + 2*svgSubnetPad
	azW := subnetW + 2*svgAZPad
	if azW > svgVPCW-2*svgAZPad {
		azW = svgVPCW - 2*svgAZPad
	}

	subnetH := svgIconH + 2*svgSubnetPad
	azH := subnetH + 2*svgAZPad + 24
	vpcH := azH + 2*svgAZPad + 24
	annotations := diagramAnnotations(in.Draft)
	svgHeight := svgVPCY + vpcH + 40 + len(annotations)*22 + 30

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		svgWidth, svgHeight, svgWidth, svgHeight)

	// 标题带
	fmt.Fprintf(&b, `  <rect x="0" y="0" width="%d" height="%d" fill="#232F3E"/>`+"\n", svgWidth, svgTitleH)
	fmt.Fprintf(&b, `  <text x="%d" y="38" font-family="Helvetica" font-size="22" fill="#FFFFFF" text-anchor="middle">Arquitectura AWS - %s</text>`+"\n",
		svgWidth/2, xmlEscape(SanitizeASCII(in.Draft.Name)))

	// VPC 容器
	fmt.Fprintf(&b, `  <rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#8C4FFF" stroke-width="2" rx="6"/>`+"\n",
		svgVPCX, svgVPCY, svgVPCW, vpcH)
	fmt.Fprintf(&b, `  <text x="%d" y="%d" font-family="Helvetica" font-size="14" fill="#8C4FFF">VPC (%s)</text>`+"\n",
		svgVPCX+10, svgVPCY+20, xmlEscape(in.Draft.Region))

	// AZ 容器
	azX := svgVPCX + (svgVPCW-azW)/2
	azY := svgVPCY + svgAZPad + 24
	fmt.Fprintf(&b, `  <rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#00A4A6" stroke-width="1.5" stroke-dasharray="6,4" rx="6"/>`+"\n",
		azX, azY, azW, azH)
	fmt.Fprintf(&b, `  <text x="%d" y="%d" font-family="Helvetica" font-size="12" fill="#00A4A6">Availability Zone %sa</text>`+"\n",
		azX+10, azY+18, xmlEscape(in.Draft.Region))

	// 公有子网
	subnetX := azX + (azW-subnetW)/2
	subnetY := azY + svgAZPad + 24
	fmt.Fprintf(&b, `  <rect x="%d" y="%d" width="%d" height="%d" fill="#F2F8F2" stroke="#7AA116" stroke-width="1.5" rx="4"/>`+"\n",
		subnetX, subnetY, subnetW, subnetH)

	// 服务图标行
	iconX := subnetX + (subnetW-iconRowW)/2
	iconY := subnetY + svgSubnetPad
	for _, svc := range services {
		color := serviceColors[svc]
		if color == "" {
			color = defaultIconColor
		}
		fmt.Fprintf(&b, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s" rx="8"/>`+"\n",
			iconX, iconY, svgIconW, svgIconH, color)
		fmt.Fprintf(&b, `  <text x="%d" y="%d" font-family="Helvetica" font-size="13" fill="#FFFFFF" text-anchor="middle">%s</text>`+"\n",
			iconX+svgIconW/2, iconY+svgIconH/2+5, xmlEscape(svc))
		iconX += svgIconW + svgIconGap
	}

	// 资源注解
	annoY := svgVPCY + vpcH + 30
	for _, line := range annotations {
		fmt.Fprintf(&b, `  <text x="%d" y="%d" font-family="Helvetica" font-size="13" fill="#232F3E">%s</text>`+"\n",
			svgVPCX, annoY, xmlEscape(line))
		annoY += 22
	}

	b.WriteString("</svg>\n")

	return model.Artifact{
		LogicalName: model.ArtifactDiagram,
		FileName:    "diagrama-arquitectura.svg",
		MediaType:   "image/svg+xml",
		Bytes:       asciiBytes(b.String()),
		Source:      model.SourceLocal,
	}, nil
}

// diagramAnnotations 检测到的实例资源细节注解行
func diagramAnnotations(d model.ProjectDraft) []string {
	var lines []string
	if d.InstanceType != "" {
		lines = append(lines, "Tipo de instancia: "+d.InstanceType)
	}
	if d.OS != "" {
		lines = append(lines, "Sistema operativo: "+d.OS)
	}
	if d.StorageGB > 0 {
		lines = append(lines, fmt.Sprintf("Almacenamiento: %d GB (EBS gp3)", d.StorageGB))
	}
	return lines
}

// xmlEscape 转义 XML 文本节点的特殊字符
func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
