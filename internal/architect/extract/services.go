// Package extract AWS 服务同义词表与默认服务注入
package extract

import "arquitecto/internal/shared/model"

// serviceSynonyms 规范服务标签到同义词列表的有序映射（英西混合）
//
// 顺序即检测顺序，也是服务集合的插入顺序。
var serviceSynonyms = []struct {
	tag      string
	synonyms []string
}{
	{"EC2", []string{"ec2", "instancia", "instance", "servidor", "server", "maquina virtual"}},
	{"S3", []string{"s3", "bucket", "almacenamiento de objetos", "object storage"}},
	{"RDS", []string{"rds", "mysql", "postgres", "postgresql", "aurora", "mariadb", "base de datos relacional"}},
	{"DynamoDB", []string{"dynamodb", "dynamo"}},
	{"Lambda", []string{"lambda", "funciones", "serverless"}},
	{"API Gateway", []string{"api gateway", "apigateway", "api rest", "rest api"}},
	{"VPC", []string{"vpc", "red privada", "subred", "subnet"}},
	{"CloudFront", []string{"cloudfront", "cdn", "distribucion de contenido"}},
	{"Route53", []string{"route53", "route 53", "dns", "dominio", "domain"}},
	{"CloudWatch", []string{"cloudwatch", "monitoreo", "monitoring", "alarmas"}},
	{"ELB", []string{"balanceador", "load balancer", "alb", "elb"}},
	{"ECS", []string{"ecs", "fargate", "contenedores", "containers", "docker"}},
	{"EKS", []string{"eks", "kubernetes", "k8s"}},
	{"ElastiCache", []string{"elasticache", "redis", "memcached", "cache"}},
	{"SQS", []string{"sqs", "cola de mensajes", "message queue"}},
	{"SNS", []string{"sns", "notificaciones", "notifications"}},
	{"Glue", []string{"glue", "etl"}},
	{"Athena", []string{"athena"}},
	{"Redshift", []string{"redshift", "data warehouse", "almacen de datos"}},
	{"VPN", []string{"vpn", "site-to-site", "conexion segura"}},
}

// ec2Companions EC2 部署的基线伴随服务
//
// 检出 EC2 即补齐网络、存储与监控，保证模板与图表自洽。
var ec2Companions = []string{"VPC", "S3", "CloudWatch"}

// defaultsByStyle 服务集合为空时按架构风格注入的默认集合
var defaultsByStyle = map[model.ArchitectureStyle][]string{
	model.StyleCDN:           {"S3", "CloudFront", "Route53"},
	model.StyleServerless:    {"API Gateway", "Lambda", "DynamoDB"},
	model.StyleMicroservices: {"API Gateway", "Lambda", "DynamoDB"},
	model.StyleData:          {"S3", "Glue", "Athena", "Redshift"},
	model.StyleStandard:      {"EC2", "VPC", "S3", "CloudWatch"},
}

// detectServices 在语料中检测服务并保持插入顺序
func detectServices(corpus string) []string {
	var services []string
	for _, entry := range serviceSynonyms {
		if containsAny(corpus, entry.synonyms) {
			services = append(services, entry.tag)
		}
	}
	return services
}

// ensureServices 补齐伴随服务与默认集合
func ensureServices(services []string, style model.ArchitectureStyle) []string {
	if hasTag(services, "EC2") {
		for _, c := range ec2Companions {
			if !hasTag(services, c) {
				services = append(services, c)
			}
		}
	}
	if len(services) == 0 {
		defaults, ok := defaultsByStyle[style]
		if !ok {
			defaults = defaultsByStyle[model.StyleStandard]
		}
		services = append(services, defaults...)
	}
	return services
}

func hasTag(services []string, tag string) bool {
	for _, s := range services {
		if s == tag {
			return true
		}
	}
	return false
}
