// Package arn builds the platform resource names the service APIs expect.
// Every builder is pure string assembly from account number, region and a
// fixed id, mirroring how the console displays them.
package arn

import (
	"fmt"
	"strings"
)

// Builder carries the account/region pair every resource name needs.
type Builder struct {
	AccountID string
	Region    string
}

func New(accountID, region string) Builder {
	return Builder{AccountID: accountID, Region: region}
}

// FoundationModel returns the ARN of a platform-hosted foundation model.
// Foundation models are account-less resources.
func (b Builder) FoundationModel(modelID string) string {
	return fmt.Sprintf("arn:aws:bedrock:%s::foundation-model/%s", b.Region, modelID)
}

// InferenceProfile returns the ARN of a cross-region inference profile.
func (b Builder) InferenceProfile(profileID string) string {
	return fmt.Sprintf("arn:aws:bedrock:%s:%s:inference-profile/%s", b.Region, b.AccountID, profileID)
}

// KnowledgeBase returns the ARN of a managed knowledge base.
func (b Builder) KnowledgeBase(kbID string) string {
	return fmt.Sprintf("arn:aws:bedrock:%s:%s:knowledge-base/%s", b.Region, b.AccountID, kbID)
}

// Guardrail returns the ARN of a guardrail.
func (b Builder) Guardrail(guardrailID string) string {
	return fmt.Sprintf("arn:aws:bedrock:%s:%s:guardrail/%s", b.Region, b.AccountID, guardrailID)
}

// AgentAlias returns the ARN of an agent alias.
func (b Builder) AgentAlias(agentID, aliasID string) string {
	return fmt.Sprintf("arn:aws:bedrock:%s:%s:agent-alias/%s/%s", b.Region, b.AccountID, agentID, aliasID)
}

// Bucket returns the ARN of an object-store bucket. Bucket ARNs carry no
// account or region segment.
func Bucket(bucket string) string {
	return fmt.Sprintf("arn:aws:s3:::%s", bucket)
}

// S3URI joins bucket and key into the s3:// form the ingestion and query
// services take.
func S3URI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, strings.TrimPrefix(key, "/"))
}

// SplitS3URI is the inverse of S3URI. The second result is empty for a
// bucket-only URI.
func SplitS3URI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in s3 uri: %q", uri)
	}
	return bucket, key, nil
}
