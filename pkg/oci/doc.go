// Package oci builds the container image references the remote manifests
// point at.
//
// Projects publish to an Amazon ECR repository named after the project:
//
//	<account>.dkr.ecr.<region>.amazonaws.com/<project>
//
// and every remote environment pulls its own tag from it, so staging and
// production are each reproducible from a distinct image:
//
//	ref, err := oci.ImageReference(identity, types.Staging)
//	// 123456789012.dkr.ecr.us-east-1.amazonaws.com/shop:staging
//
// References are parsed with go-containerregistry under strict validation
// before they are handed to the synthesizers.
package oci
