package email

// Email templates using HTML

const welcomeTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #7c2d12, #9a3412); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .button { display: inline-block; background: #9a3412; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
        .features { margin: 20px 0; }
        .feature { padding: 10px 0; border-bottom: 1px solid #e5e7eb; }
        .feature:last-child { border-bottom: none; }
    </style>
</head>
<body>
    <div class="header">
        <h1>SIGED</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Gestão de Documentos Cartorários</p>
    </div>
    <div class="content">
        <h2>Bem-vindo, {{.UserName}}!</h2>
        <p>Obrigado por se cadastrar no SIGED, sua plataforma de serviços de registro de imóveis.</p>

        <div class="features">
            <h3>O que você pode fazer:</h3>
            <div class="feature">Solicitar buscas e certidões de registro</div>
            <div class="feature">Acompanhar o andamento dos seus pedidos</div>
            <div class="feature">Conversar com o analista responsável</div>
            <div class="feature">Pagar por cartão, PIX ou boleto</div>
            <div class="feature">Baixar laudos e documentos finais</div>
        </div>

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/pedidos" class="button">Começar</a>
        </p>

        <p>Em caso de dúvidas, nossa equipe de atendimento está à disposição.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 SIGED. Todos os direitos reservados.</p>
        <p>Mensagem automática. Por favor, não responda a este e-mail.</p>
    </div>
</body>
</html>
`

const quoteReadyTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #7c2d12, #9a3412); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .info-box { background: #fef3c7; border: 1px solid #f59e0b; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .info-row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #fde68a; }
        .info-row:last-child { border-bottom: none; }
        .info-label { color: #92400e; }
        .info-value { font-weight: 600; color: #78350f; }
        .button { display: inline-block; background: #9a3412; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>SIGED</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Gestão de Documentos Cartorários</p>
    </div>
    <div class="content">
        <h2>Orçamento disponível</h2>
        <p>Olá {{.UserName}},</p>
        <p>Seu pedido foi analisado e o orçamento está pronto. Efetue o pagamento para iniciarmos o trabalho.</p>

        <div class="info-box">
            <div class="info-row">
                <span class="info-label">Pedido</span>
                <span class="info-value">{{.OrderID}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Serviço</span>
                <span class="info-value">{{.ServiceName}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Valor</span>
                <span class="info-value">R$ {{.Total}}</span>
            </div>
        </div>

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/pedidos/{{.OrderID}}" class="button">Ver pedido e pagar</a>
        </p>
    </div>
    <div class="footer">
        <p>&copy; 2026 SIGED. Todos os direitos reservados.</p>
        <p>Mensagem automática. Por favor, não responda a este e-mail.</p>
    </div>
</body>
</html>
`

const paymentConfirmedTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #7c2d12, #9a3412); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .info-box { background: #d1fae5; border: 1px solid #10b981; padding: 20px; border-radius: 8px; margin: 20px 0; }
        .info-row { display: flex; justify-content: space-between; padding: 8px 0; border-bottom: 1px solid #a7f3d0; }
        .info-row:last-child { border-bottom: none; }
        .info-label { color: #047857; }
        .info-value { font-weight: 600; color: #065f46; }
        .button { display: inline-block; background: #9a3412; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>SIGED</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Gestão de Documentos Cartorários</p>
    </div>
    <div class="content">
        <h2>Pagamento confirmado</h2>
        <p>Olá {{.UserName}},</p>
        <p>Recebemos seu pagamento e o trabalho no seu pedido já foi iniciado.</p>

        <div class="info-box">
            <div class="info-row">
                <span class="info-label">Pedido</span>
                <span class="info-value">{{.OrderID}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Serviço</span>
                <span class="info-value">{{.ServiceName}}</span>
            </div>
            <div class="info-row">
                <span class="info-label">Valor pago</span>
                <span class="info-value">R$ {{.Total}}</span>
            </div>
        </div>

        <p>Você será avisado a cada atualização. Acompanhe o andamento pelo painel.</p>

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/pedidos/{{.OrderID}}" class="button">Acompanhar pedido</a>
        </p>
    </div>
    <div class="footer">
        <p>&copy; 2026 SIGED. Todos os direitos reservados.</p>
        <p>Mensagem automática. Por favor, não responda a este e-mail.</p>
    </div>
</body>
</html>
`

const orderCompletedTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #7c2d12, #9a3412); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .success { background: #d1fae5; border: 1px solid #10b981; padding: 15px; border-radius: 8px; margin: 20px 0; }
        .button { display: inline-block; background: #9a3412; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>SIGED</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Gestão de Documentos Cartorários</p>
    </div>
    <div class="content">
        <h2>Pedido concluído</h2>
        <p>Olá {{.UserName}},</p>

        <div class="success">
            <p style="margin: 0;">O serviço <strong>{{.ServiceName}}</strong> do pedido <strong>{{.OrderID}}</strong> foi concluído. O laudo final já está disponível para download.</p>
        </div>

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/pedidos/{{.OrderID}}" class="button">Baixar laudo</a>
        </p>

        <p>Agradecemos a confiança em nossos serviços.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 SIGED. Todos os direitos reservados.</p>
        <p>Mensagem automática. Por favor, não responda a este e-mail.</p>
    </div>
</body>
</html>
`

const orderCanceledTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #7c2d12, #9a3412); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .warning { background: #fef3c7; border: 1px solid #f59e0b; padding: 15px; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>SIGED</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Gestão de Documentos Cartorários</p>
    </div>
    <div class="content">
        <h2>Pedido cancelado</h2>
        <p>Olá {{.UserName}},</p>

        <div class="warning">
            <p style="margin: 0;">O pedido <strong>{{.OrderID}}</strong> ({{.ServiceName}}) foi cancelado. Nenhuma cobrança adicional será feita.</p>
        </div>

        <p>Se o cancelamento não foi solicitado por você, entre em contato com nossa equipe.</p>
    </div>
    <div class="footer">
        <p>&copy; 2026 SIGED. Todos os direitos reservados.</p>
        <p>Mensagem automática. Por favor, não responda a este e-mail.</p>
    </div>
</body>
</html>
`

const newMessageTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #7c2d12, #9a3412); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .button { display: inline-block; background: #9a3412; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>SIGED</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Gestão de Documentos Cartorários</p>
    </div>
    <div class="content">
        <h2>Nova mensagem</h2>
        <p>Olá {{.UserName}},</p>
        <p><strong>{{.SenderName}}</strong> enviou uma nova mensagem no pedido <strong>{{.OrderID}}</strong>.</p>

        <p style="text-align: center;">
            <a href="{{.BaseURL}}/pedidos/{{.OrderID}}" class="button">Ler mensagem</a>
        </p>
    </div>
    <div class="footer">
        <p>&copy; 2026 SIGED. Todos os direitos reservados.</p>
        <p>Mensagem automática. Por favor, não responda a este e-mail.</p>
    </div>
</body>
</html>
`

const passwordResetTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #7c2d12, #9a3412); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #ffffff; padding: 30px; border: 1px solid #e5e7eb; border-top: none; }
        .footer { background: #f9fafb; padding: 20px; text-align: center; font-size: 12px; color: #6b7280; border: 1px solid #e5e7eb; border-top: none; border-radius: 0 0 10px 10px; }
        .warning { background: #fef3c7; border: 1px solid #f59e0b; padding: 15px; border-radius: 8px; margin: 20px 0; }
        .button { display: inline-block; background: #9a3412; color: white; padding: 12px 30px; text-decoration: none; border-radius: 6px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="header">
        <h1>SIGED</h1>
        <p style="margin: 5px 0 0 0; opacity: 0.9;">Gestão de Documentos Cartorários</p>
    </div>
    <div class="content">
        <h2>Redefinição de senha</h2>
        <p>Olá {{.UserName}},</p>
        <p>Recebemos uma solicitação para redefinir a senha da sua conta.</p>

        <p style="text-align: center;">
            <a href="{{.ResetURL}}" class="button">Redefinir senha</a>
        </p>

        <div class="warning">
            <p style="margin: 0;">Se você não solicitou a redefinição, ignore este e-mail. O link expira em 1 hora.</p>
        </div>
    </div>
    <div class="footer">
        <p>&copy; 2026 SIGED. Todos os direitos reservados.</p>
        <p>Mensagem automática. Por favor, não responda a este e-mail.</p>
    </div>
</body>
</html>
`
