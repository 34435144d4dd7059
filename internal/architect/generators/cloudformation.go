package generators

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"arquitecto/internal/shared/model"
)

// NewCloudFormationGenerator CloudFormation 模板本地生成器
func NewCloudFormationGenerator() Generator {
	return &localGenerator{name: model.ArtifactCloudFormation, fn: generateCloudFormation}
}

// generateCloudFormation 生成自包含模板。检测到 EC2 时输出完整的
// VPC + 实例栈，否则输出一个加密、版本化、禁止公共访问的 S3 桶。
// 模板通过 yaml.Node 树渲染，键顺序固定，输出字节确定。
func generateCloudFormation(in Input) (model.Artifact, error) {
	name := model.SanitizeName(in.Draft.Name)

	params := []nodePair{
		{"Environment", mapNode(
			nodePair{"Type", strNode("String")},
			nodePair{"Default", strNode("production")},
			nodePair{"AllowedValues", seqNode(strNode("development"), strNode("staging"), strNode("production"))},
			nodePair{"Description", strNode("Ambiente de despliegue")},
		)},
	}

	var resources []nodePair
	var outputs []nodePair

	if in.Draft.HasService("EC2") {
		params = append(params,
			nodePair{"InstanceType", mapNode(
				nodePair{"Type", strNode("String")},
				nodePair{"Default", strNode(instanceTypeOrDefault(in.Draft))},
				nodePair{"Description", strNode("Tipo de instancia EC2")},
			)},
			nodePair{"KeyPairName", mapNode(
				nodePair{"Type", strNode("String")},
				nodePair{"Default", strNode(name + "-keypair")},
				nodePair{"Description", strNode("Nombre del key pair para acceso SSH")},
			)},
		)
		resources = ec2Resources(name, in.Draft)
		outputs = []nodePair{
			{"VPCId", mapNode(
				nodePair{"Description", strNode("ID de la VPC creada")},
				nodePair{"Value", refNode("VPC")},
			)},
			{"InstanceId", mapNode(
				nodePair{"Description", strNode("ID de la instancia EC2")},
				nodePair{"Value", refNode("EC2Instance")},
			)},
			{"PublicIP", mapNode(
				nodePair{"Description", strNode("IP publica de la instancia")},
				nodePair{"Value", getAttNode("EC2Instance", "PublicIp")},
			)},
		}
	} else {
		resources = bucketResources(name)
		outputs = []nodePair{
			{"BucketName", mapNode(
				nodePair{"Description", strNode("Nombre del bucket de documentos")},
				nodePair{"Value", refNode("DocumentsBucket")},
			)},
			{"BucketArn", mapNode(
				nodePair{"Description", strNode("ARN del bucket")},
				nodePair{"Value", getAttNode("DocumentsBucket", "Arn")},
			)},
		}
	}

	root := mapNode(
		nodePair{"AWSTemplateFormatVersion", strNode("2010-09-09")},
		nodePair{"Description", strNode(fmt.Sprintf("Infraestructura para %s - generada por Arquitecto AWS", name))},
		nodePair{"Parameters", mapNode(params...)},
		nodePair{"Resources", mapNode(resources...)},
		nodePair{"Outputs", mapNode(outputs...)},
	)

	out, err := yaml.Marshal(root)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("%w: cloudformation render: %v", ErrGeneration, err)
	}

	return model.Artifact{
		LogicalName: model.ArtifactCloudFormation,
		FileName:    "cloudformation-template.yaml",
		MediaType:   "text/yaml",
		Bytes:       asciiBytes(string(out)),
		Source:      model.SourceLocal,
	}, nil
}

// ec2Resources VPC + IGW + 公有子网 + 路由表 + 安全组 + 实例配置档 + 实例
func ec2Resources(name string, d model.ProjectDraft) []nodePair {
	return []nodePair{
		{"VPC", mapNode(
			nodePair{"Type", strNode("AWS::EC2::VPC")},
			nodePair{"Properties", mapNode(
				nodePair{"CidrBlock", strNode("10.0.0.0/16")},
				nodePair{"EnableDnsHostnames", boolNode(true)},
				nodePair{"EnableDnsSupport", boolNode(true)},
				nodePair{"Tags", nameTags(name + "-vpc")},
			)},
		)},
		{"InternetGateway", mapNode(
			nodePair{"Type", strNode("AWS::EC2::InternetGateway")},
			nodePair{"Properties", mapNode(
				nodePair{"Tags", nameTags(name + "-igw")},
			)},
		)},
		{"AttachGateway", mapNode(
			nodePair{"Type", strNode("AWS::EC2::VPCGatewayAttachment")},
			nodePair{"Properties", mapNode(
				nodePair{"VpcId", refNode("VPC")},
				nodePair{"InternetGatewayId", refNode("InternetGateway")},
			)},
		)},
		{"PublicSubnet", mapNode(
			nodePair{"Type", strNode("AWS::EC2::Subnet")},
			nodePair{"Properties", mapNode(
				nodePair{"VpcId", refNode("VPC")},
				nodePair{"CidrBlock", strNode("10.0.1.0/24")},
				nodePair{"MapPublicIpOnLaunch", boolNode(true)},
				nodePair{"AvailabilityZone", selectAZNode()},
				nodePair{"Tags", nameTags(name + "-public-subnet")},
			)},
		)},
		{"PublicRouteTable", mapNode(
			nodePair{"Type", strNode("AWS::EC2::RouteTable")},
			nodePair{"Properties", mapNode(
				nodePair{"VpcId", refNode("VPC")},
				nodePair{"Tags", nameTags(name + "-public-rt")},
			)},
		)},
		{"PublicRoute", mapNode(
			nodePair{"Type", strNode("AWS::EC2::Route")},
			nodePair{"DependsOn", strNode("AttachGateway")},
			nodePair{"Properties", mapNode(
				nodePair{"RouteTableId", refNode("PublicRouteTable")},
				nodePair{"DestinationCidrBlock", strNode("0.0.0.0/0")},
				nodePair{"GatewayId", refNode("InternetGateway")},
			)},
		)},
		{"SubnetRouteAssociation", mapNode(
			nodePair{"Type", strNode("AWS::EC2::SubnetRouteTableAssociation")},
			nodePair{"Properties", mapNode(
				nodePair{"SubnetId", refNode("PublicSubnet")},
				nodePair{"RouteTableId", refNode("PublicRouteTable")},
			)},
		)},
		{"InstanceSecurityGroup", mapNode(
			nodePair{"Type", strNode("AWS::EC2::SecurityGroup")},
			nodePair{"Properties", mapNode(
				nodePair{"GroupDescription", strNode("Acceso controlado a la instancia de " + name)},
				nodePair{"VpcId", refNode("VPC")},
				nodePair{"SecurityGroupIngress", seqNode(
					mapNode(
						nodePair{"IpProtocol", strNode("tcp")},
						nodePair{"FromPort", intNode(443)},
						nodePair{"ToPort", intNode(443)},
						nodePair{"CidrIp", strNode("0.0.0.0/0")},
						nodePair{"Description", strNode("HTTPS")},
					),
					mapNode(
						nodePair{"IpProtocol", strNode("tcp")},
						nodePair{"FromPort", intNode(22)},
						nodePair{"ToPort", intNode(22)},
						nodePair{"CidrIp", strNode("10.0.0.0/16")},
						nodePair{"Description", strNode("SSH interno")},
					),
				)},
				nodePair{"Tags", nameTags(name + "-sg")},
			)},
		)},
		{"InstanceRole", mapNode(
			nodePair{"Type", strNode("AWS::IAM::Role")},
			nodePair{"Properties", mapNode(
				nodePair{"AssumeRolePolicyDocument", mapNode(
					nodePair{"Version", strNode("2012-10-17")},
					nodePair{"Statement", seqNode(mapNode(
						nodePair{"Effect", strNode("Allow")},
						nodePair{"Principal", mapNode(nodePair{"Service", strNode("ec2.amazonaws.com")})},
						nodePair{"Action", strNode("sts:AssumeRole")},
					))},
				)},
				nodePair{"ManagedPolicyArns", seqNode(
					strNode("arn:aws:iam::aws:policy/AmazonSSMManagedInstanceCore"),
				)},
				nodePair{"Tags", nameTags(name + "-role")},
			)},
		)},
		{"InstanceProfile", mapNode(
			nodePair{"Type", strNode("AWS::IAM::InstanceProfile")},
			nodePair{"Properties", mapNode(
				nodePair{"Roles", seqNode(refNode("InstanceRole"))},
			)},
		)},
		{"EC2Instance", mapNode(
			nodePair{"Type", strNode("AWS::EC2::Instance")},
			nodePair{"Properties", mapNode(
				nodePair{"InstanceType", refNode("InstanceType")},
				nodePair{"ImageId", strNode(imageIDFor(d))},
				nodePair{"SubnetId", refNode("PublicSubnet")},
				nodePair{"SecurityGroupIds", seqNode(refNode("InstanceSecurityGroup"))},
				nodePair{"IamInstanceProfile", refNode("InstanceProfile")},
				nodePair{"BlockDeviceMappings", seqNode(mapNode(
					nodePair{"DeviceName", strNode(rootDeviceFor(d))},
					nodePair{"Ebs", mapNode(
						nodePair{"VolumeSize", intNode(storageOrDefault(d))},
						nodePair{"VolumeType", strNode("gp3")},
						nodePair{"Encrypted", boolNode(true)},
					)},
				))},
				nodePair{"Tags", nameTags(name + "-instance")},
			)},
		)},
	}
}

// bucketResources 加密、版本化、禁止公共访问的文档桶
func bucketResources(name string) []nodePair {
	return []nodePair{
		{"DocumentsBucket", mapNode(
			nodePair{"Type", strNode("AWS::S3::Bucket")},
			nodePair{"Properties", mapNode(
				nodePair{"BucketEncryption", mapNode(
					nodePair{"ServerSideEncryptionConfiguration", seqNode(mapNode(
						nodePair{"ServerSideEncryptionByDefault", mapNode(
							nodePair{"SSEAlgorithm", strNode("AES256")},
						)},
					))},
				)},
				nodePair{"VersioningConfiguration", mapNode(
					nodePair{"Status", strNode("Enabled")},
				)},
				nodePair{"PublicAccessBlockConfiguration", mapNode(
					nodePair{"BlockPublicAcls", boolNode(true)},
					nodePair{"BlockPublicPolicy", boolNode(true)},
					nodePair{"IgnorePublicAcls", boolNode(true)},
					nodePair{"RestrictPublicBuckets", boolNode(true)},
				)},
				nodePair{"Tags", nameTags(name + "-bucket")},
			)},
		)},
	}
}

func instanceTypeOrDefault(d model.ProjectDraft) string {
	if d.InstanceType != "" {
		return d.InstanceType
	}
	return "t3.medium"
}

func storageOrDefault(d model.ProjectDraft) int {
	if d.StorageGB > 0 {
		return d.StorageGB
	}
	return 50
}

// imageIDFor 按操作系统选择 AMI 占位符（SSM 公共参数解析）
func imageIDFor(d model.ProjectDraft) string {
	if d.OS == "Windows Server" {
		return "{{resolve:ssm:/aws/service/ami-windows-latest/Windows_Server-2022-English-Full-Base}}"
	}
	return "{{resolve:ssm:/aws/service/ami-amazon-linux-latest/al2023-ami-kernel-default-x86_64}}"
}

func rootDeviceFor(d model.ProjectDraft) string {
	if d.OS == "Windows Server" {
		return "/dev/sda1"
	}
	return "/dev/xvda"
}

// ============================================================================
// yaml.Node 构造辅助，保证键顺序稳定
// ============================================================================

type nodePair struct {
	key   string
	value *yaml.Node
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("%d", i)}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", v)}
}

func mapNode(pairs ...nodePair) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range pairs {
		n.Content = append(n.Content, strNode(p.key), p.value)
	}
	return n
}

func seqNode(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

// refNode CloudFormation 的 {Ref: name} 内联形式
func refNode(name string) *yaml.Node {
	return mapNode(nodePair{"Ref", strNode(name)})
}

// getAttNode CloudFormation 的 Fn::GetAtt
func getAttNode(resource, attr string) *yaml.Node {
	return mapNode(nodePair{"Fn::GetAtt", seqNode(strNode(resource), strNode(attr))})
}

// selectAZNode 取区域的第一个可用区
func selectAZNode() *yaml.Node {
	return mapNode(nodePair{"Fn::Select", seqNode(
		intNode(0),
		mapNode(nodePair{"Fn::GetAZs", strNode("")}),
	)})
}

// nameTags 每个资源携带的 Name 标签
func nameTags(value string) *yaml.Node {
	return seqNode(mapNode(
		nodePair{"Key", strNode("Name")},
		nodePair{"Value", strNode(value)},
	))
}
